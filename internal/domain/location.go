package domain

import (
	"fmt"
	"strings"
)

// LocationDepth is the number of levels in every storage key prefix.
const LocationDepth = 4

type LocationPath struct {
	State       string `json:"state" query:"state"`
	District    string `json:"district" query:"district"`
	SubDistrict string `json:"sub_district" query:"sub_district"`
	Village     string `json:"village" query:"village"`
}

func (l LocationPath) Segments() []string {
	return []string{l.State, l.District, l.SubDistrict, l.Village}
}

func (l LocationPath) IsComplete() bool {
	for _, s := range l.Segments() {
		if strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}

// Validate checks that every level is present and usable as a key segment.
func (l LocationPath) Validate() error {
	fields := []string{"state", "district", "sub_district", "village"}
	for i, s := range l.Segments() {
		if strings.TrimSpace(s) == "" {
			return NewValidationError(fields[i], "is required")
		}
		if strings.Contains(s, "/") {
			return NewValidationError(fields[i], "must not contain '/'")
		}
	}
	return nil
}

func (l LocationPath) String() string {
	return fmt.Sprintf("%s, %s, %s, %s", l.Village, l.SubDistrict, l.District, l.State)
}

func LocationFromSegments(segments []string) (LocationPath, error) {
	if len(segments) != LocationDepth {
		return LocationPath{}, fmt.Errorf("location needs %d segments, got %d", LocationDepth, len(segments))
	}
	loc := LocationPath{
		State:       segments[0],
		District:    segments[1],
		SubDistrict: segments[2],
		Village:     segments[3],
	}
	return loc, loc.Validate()
}
