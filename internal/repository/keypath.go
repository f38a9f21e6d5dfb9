package repository

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"online-voting/internal/domain"
	"online-voting/internal/store"
)

const (
	candidatesRoot = "candidates"
	votersRoot     = "voters"
	hasVotedRoot   = "hasVoted"
	usersRoot      = "users"
	userRolesRoot  = "userRoles"
)

func locationPath(root string, loc domain.LocationPath, rest ...string) string {
	segments := append([]string{root}, loc.Segments()...)
	return store.Join(append(segments, rest...)...)
}

func putLocation(doc store.Document, loc domain.LocationPath) {
	doc["location.state"] = loc.State
	doc["location.district"] = loc.District
	doc["location.subDistrict"] = loc.SubDistrict
	doc["location.village"] = loc.Village
}

func readLocation(doc store.Document) domain.LocationPath {
	return domain.LocationPath{
		State:       doc["location.state"],
		District:    doc["location.district"],
		SubDistrict: doc["location.subDistrict"],
		Village:     doc["location.village"],
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatMillis(ms int64) string {
	return strconv.FormatInt(ms, 10)
}

// storeErr maps transport failures onto the domain's retryable error.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrUnavailable) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}
