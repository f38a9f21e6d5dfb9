package domain

import "time"

type Candidate struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	AadharNumber      string       `json:"aadhar_number"`
	PhoneNumber       string       `json:"phone_number"`
	Party             string       `json:"party"`
	SymbolName        string       `json:"symbol_name"`
	SymbolImageBase64 string       `json:"symbol_image_base64"`
	Location          LocationPath `json:"location"`
	VoteCount         int64        `json:"vote_count"`
	LastVoteTimestamp *int64       `json:"last_vote_timestamp,omitempty"`
	Timestamp         time.Time    `json:"timestamp"`
}

// PublicCandidate is the candidate record as shown to voters. Identity and
// contact numbers stay with the admins.
type PublicCandidate struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Party             string       `json:"party"`
	SymbolName        string       `json:"symbol_name"`
	SymbolImageBase64 string       `json:"symbol_image_base64"`
	Location          LocationPath `json:"location"`
}

func (c *Candidate) Public() PublicCandidate {
	return PublicCandidate{
		ID:                c.ID,
		Name:              c.Name,
		Party:             c.Party,
		SymbolName:        c.SymbolName,
		SymbolImageBase64: c.SymbolImageBase64,
		Location:          c.Location,
	}
}

// CandidateLeaf is one candidate record as found in the stored tree. Location
// and CandidateID come from the key path, not from the record body.
type CandidateLeaf struct {
	Location    LocationPath
	CandidateID string
	Candidate   Candidate
}

type CreateCandidateInput struct {
	Name            string       `json:"name" form:"name"`
	AadharNumber    string       `json:"aadhar_number" form:"aadhar_number"`
	PhoneNumber     string       `json:"phone_number" form:"phone_number"`
	Party           string       `json:"party" form:"party"`
	SymbolName      string       `json:"symbol_name" form:"symbol_name"`
	Location        LocationPath `json:"location"`
	SymbolImage     []byte       `json:"-"`
	SymbolImageType string       `json:"-"`
}

const MaxSymbolImageSize = 5 * 1024 * 1024

var Parties = []string{
	"Bharatiya Janata Party",
	"Indian National Congress",
	"Aam Aadmi Party",
	"Bahujan Samaj Party",
	"Communist Party of India(Marxist)",
	"Nationalist Congress Party",
	"Shiv Sena",
	"Independent",
}

func IsKnownParty(party string) bool {
	for _, p := range Parties {
		if p == party {
			return true
		}
	}
	return false
}

type CastVoteInput struct {
	Location    LocationPath `json:"location"`
	CandidateID string       `json:"candidate_id"`
	VoterNumber string       `json:"voter_number,omitempty"`
}

type VoteReceipt struct {
	CandidateID string    `json:"candidate_id"`
	VoteCount   int64     `json:"vote_count"`
	RecordedAt  time.Time `json:"recorded_at"`
}
