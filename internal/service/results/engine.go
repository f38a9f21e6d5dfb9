// Package results folds the candidate tree into party and per-district
// standings.
package results

import (
	"fmt"
	"sort"
	"strings"

	"online-voting/internal/domain"
)

// Shape says how district keys are derived from a leaf's location.
type Shape int

const (
	// ShapeSingleState keys districts by their raw name and ignores every
	// state except Options.SingleStateKey.
	ShapeSingleState Shape = iota
	// ShapeMultiState keys districts as "{state}-{district}".
	ShapeMultiState
)

func (s Shape) String() string {
	if s == ShapeMultiState {
		return "multi"
	}
	return "single"
}

// ShapeMode is the configured shape; ModeAuto is resolved once per pass.
type ShapeMode string

const (
	ModeAuto   ShapeMode = "auto"
	ModeSingle ShapeMode = "single"
	ModeMulti  ShapeMode = "multi"
)

func ParseShapeMode(s string) (ShapeMode, error) {
	switch m := ShapeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeSingle, ModeMulti:
		return m, nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("unknown results tree shape %q", s)
}

type Options struct {
	Shape          Shape
	SingleStateKey string
}

type PartyTotal struct {
	Party             string `json:"party"`
	VoteCount         int64  `json:"vote_count"`
	SymbolName        string `json:"symbol_name"`
	SymbolImageBase64 string `json:"symbol_image_base64,omitempty"`
}

type CandidateTotal struct {
	CandidateID       string `json:"candidate_id"`
	Name              string `json:"name"`
	Party             string `json:"party"`
	VoteCount         int64  `json:"vote_count"`
	SymbolName        string `json:"symbol_name"`
	SymbolImageBase64 string `json:"symbol_image_base64,omitempty"`
}

type DistrictResult struct {
	Key        string           `json:"key"`
	Parties    []PartyTotal     `json:"parties"`
	Candidates []CandidateTotal `json:"candidates"`
}

// Results is one aggregation pass. It is immutable once returned.
type Results struct {
	Shape        Shape            `json:"-"`
	NoData       bool             `json:"no_data"`
	LeadingParty *PartyTotal      `json:"leading_party,omitempty"`
	Parties      []PartyTotal     `json:"parties"`
	Districts    []DistrictResult `json:"districts"`
	TotalVotes   int64            `json:"total_votes"`

	index map[string]int
}

const unknownName = "Unknown"

type partyAcc struct {
	order  []string
	totals map[string]*PartyTotal
}

func newPartyAcc() *partyAcc {
	return &partyAcc{totals: make(map[string]*PartyTotal)}
}

func (a *partyAcc) add(c domain.Candidate) {
	p, ok := a.totals[c.Party]
	if !ok {
		p = &PartyTotal{Party: c.Party, SymbolName: c.SymbolName, SymbolImageBase64: c.SymbolImageBase64}
		a.totals[c.Party] = p
		a.order = append(a.order, c.Party)
	}
	p.VoteCount += c.VoteCount
}

func (a *partyAcc) sorted() []PartyTotal {
	out := make([]PartyTotal, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, *a.totals[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].VoteCount != out[j].VoteCount {
			return out[i].VoteCount > out[j].VoteCount
		}
		return out[i].Party < out[j].Party
	})
	return out
}

type districtAcc struct {
	parties    *partyAcc
	candidates map[string]*CandidateTotal
	order      []string
}

// Aggregate folds leaves into results. Leaves are taken in the order given;
// districts are listed in the order they are first seen.
func Aggregate(leaves []domain.CandidateLeaf, opts Options) *Results {
	global := newPartyAcc()
	districts := make(map[string]*districtAcc)
	var districtOrder []string

	for _, leaf := range leaves {
		key, ok := districtKey(leaf.Location, opts)
		if !ok {
			continue
		}
		d, seen := districts[key]
		if !seen {
			d = &districtAcc{parties: newPartyAcc(), candidates: make(map[string]*CandidateTotal)}
			districts[key] = d
			districtOrder = append(districtOrder, key)
		}

		c := leaf.Candidate
		if existing, ok := d.candidates[leaf.CandidateID]; ok {
			existing.VoteCount += c.VoteCount
		} else if c.VoteCount > 0 {
			name := c.Name
			if name == "" {
				name = unknownName
			}
			d.candidates[leaf.CandidateID] = &CandidateTotal{
				CandidateID:       leaf.CandidateID,
				Name:              name,
				Party:             c.Party,
				VoteCount:         c.VoteCount,
				SymbolName:        c.SymbolName,
				SymbolImageBase64: c.SymbolImageBase64,
			}
			d.order = append(d.order, leaf.CandidateID)
		}

		if c.VoteCount > 0 {
			global.add(c)
			d.parties.add(c)
		}
	}

	parties := global.sorted()
	if len(parties) == 0 {
		return &Results{Shape: opts.Shape, NoData: true, Parties: []PartyTotal{}, Districts: []DistrictResult{}}
	}

	r := &Results{
		Shape:     opts.Shape,
		Parties:   parties,
		Districts: make([]DistrictResult, 0, len(districtOrder)),
		index:     make(map[string]int, len(districtOrder)),
	}
	leader := parties[0]
	r.LeadingParty = &leader
	for _, p := range parties {
		r.TotalVotes += p.VoteCount
	}

	for _, key := range districtOrder {
		d := districts[key]
		candidates := make([]CandidateTotal, 0, len(d.order))
		for _, id := range d.order {
			candidates = append(candidates, *d.candidates[id])
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].VoteCount != candidates[j].VoteCount {
				return candidates[i].VoteCount > candidates[j].VoteCount
			}
			if candidates[i].Name != candidates[j].Name {
				return candidates[i].Name < candidates[j].Name
			}
			return candidates[i].CandidateID < candidates[j].CandidateID
		})
		r.index[key] = len(r.Districts)
		r.Districts = append(r.Districts, DistrictResult{
			Key:        key,
			Parties:    d.parties.sorted(),
			Candidates: candidates,
		})
	}
	return r
}

func districtKey(loc domain.LocationPath, opts Options) (string, bool) {
	if opts.Shape == ShapeMultiState {
		return loc.State + "-" + loc.District, true
	}
	if loc.State != opts.SingleStateKey {
		return "", false
	}
	return loc.District, true
}

func (r *Results) DistrictKeys() []string {
	keys := make([]string, len(r.Districts))
	for i, d := range r.Districts {
		keys[i] = d.Key
	}
	return keys
}

func (r *Results) District(key string) (DistrictResult, bool) {
	i, ok := r.index[key]
	if !ok {
		return DistrictResult{}, false
	}
	return r.Districts[i], true
}

const AllDistricts = "all"

// View is what the results screen renders for one selection.
type View struct {
	Selection    string           `json:"selection"`
	NoData       bool             `json:"no_data"`
	LeadingParty *PartyTotal      `json:"leading_party,omitempty"`
	Districts    []string         `json:"districts"`
	Parties      []PartyTotal     `json:"parties,omitempty"`
	Candidates   []CandidateTotal `json:"candidates,omitempty"`
}

// View selects either the party-wise totals ("all" or empty) or one
// district's candidate standings, without re-reading anything.
func (r *Results) View(selection string) (View, error) {
	if selection == "" {
		selection = AllDistricts
	}
	v := View{
		Selection:    selection,
		NoData:       r.NoData,
		LeadingParty: r.LeadingParty,
		Districts:    r.DistrictKeys(),
	}
	if r.NoData {
		return v, nil
	}
	if selection == AllDistricts {
		v.Parties = r.Parties
		return v, nil
	}
	d, ok := r.District(selection)
	if !ok {
		return View{}, fmt.Errorf("%w: %s", domain.ErrUnknownDistrict, selection)
	}
	v.Candidates = d.Candidates
	return v, nil
}
