// Package location serves the static state, district, sub-district and
// village hierarchy that every voter and candidate key path is built from.
package location

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"online-voting/internal/domain"
)

//go:embed data/locations.yaml
var defaultHierarchy []byte

type file struct {
	States []State `yaml:"states"`
}

type State struct {
	Code      string     `yaml:"code" json:"code"`
	Name      string     `yaml:"name" json:"name"`
	Districts []District `yaml:"districts" json:"-"`
}

type District struct {
	Name         string        `yaml:"name"`
	SubDistricts []SubDistrict `yaml:"sub_districts"`
}

type SubDistrict struct {
	Name     string   `yaml:"name"`
	Villages []string `yaml:"villages"`
}

// Directory is read-only after construction and safe for concurrent use.
type Directory struct {
	states []State
}

// Load reads the hierarchy from path, or the embedded default when path is empty.
func Load(path string) (*Directory, error) {
	data := defaultHierarchy
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*Directory, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse location hierarchy: %w", err)
	}
	if len(f.States) == 0 {
		return nil, fmt.Errorf("location hierarchy has no states")
	}
	for _, s := range f.States {
		if s.Code == "" {
			return nil, fmt.Errorf("location hierarchy has a state without a code")
		}
	}
	return &Directory{states: f.States}, nil
}

func (d *Directory) States() []State {
	out := make([]State, len(d.states))
	copy(out, d.states)
	return out
}

func (d *Directory) Districts(state string) ([]string, error) {
	s, err := d.state(state)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(s.Districts))
	for _, dist := range s.Districts {
		out = append(out, dist.Name)
	}
	return out, nil
}

func (d *Directory) SubDistricts(state, district string) ([]string, error) {
	dist, err := d.district(state, district)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(dist.SubDistricts))
	for _, sd := range dist.SubDistricts {
		out = append(out, sd.Name)
	}
	return out, nil
}

func (d *Directory) Villages(state, district, subDistrict string) ([]string, error) {
	sd, err := d.subDistrict(state, district, subDistrict)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(sd.Villages))
	copy(out, sd.Villages)
	return out, nil
}

// Validate checks that every level of loc names a known entry.
func (d *Directory) Validate(loc domain.LocationPath) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	villages, err := d.Villages(loc.State, loc.District, loc.SubDistrict)
	if err != nil {
		return err
	}
	for _, v := range villages {
		if v == loc.Village {
			return nil
		}
	}
	return domain.NewValidationError("village", fmt.Sprintf("unknown village %q", loc.Village))
}

func (d *Directory) state(code string) (*State, error) {
	for i := range d.states {
		if d.states[i].Code == code {
			return &d.states[i], nil
		}
	}
	return nil, domain.NewValidationError("state", fmt.Sprintf("unknown state %q", code))
}

func (d *Directory) district(state, name string) (*District, error) {
	s, err := d.state(state)
	if err != nil {
		return nil, err
	}
	for i := range s.Districts {
		if s.Districts[i].Name == name {
			return &s.Districts[i], nil
		}
	}
	return nil, domain.NewValidationError("district", fmt.Sprintf("unknown district %q", name))
}

func (d *Directory) subDistrict(state, district, name string) (*SubDistrict, error) {
	dist, err := d.district(state, district)
	if err != nil {
		return nil, err
	}
	for i := range dist.SubDistricts {
		if dist.SubDistricts[i].Name == name {
			return &dist.SubDistricts[i], nil
		}
	}
	return nil, domain.NewValidationError("sub_district", fmt.Sprintf("unknown sub-district %q", name))
}
