package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"online-voting/internal/domain"
	"online-voting/internal/store"
)

// VoteGuard marks a voter as having voted, atomically with the increment.
type VoteGuard struct {
	Location    domain.LocationPath
	VoterNumber string
}

type CandidateRepository interface {
	Create(ctx context.Context, candidate *domain.Candidate) error
	Get(ctx context.Context, loc domain.LocationPath, id string) (*domain.Candidate, error)
	ListByLocation(ctx context.Context, loc domain.LocationPath) ([]domain.Candidate, error)
	ListLeaves(ctx context.Context) ([]domain.CandidateLeaf, error)
	RootExists(ctx context.Context) (bool, error)
	StateExists(ctx context.Context, state string) (bool, error)
	RecordVote(ctx context.Context, loc domain.LocationPath, id string, at time.Time, guard *VoteGuard) (int64, error)
}

type candidateRepository struct {
	docs store.Store
}

func NewCandidateRepository(docs store.Store) CandidateRepository {
	return &candidateRepository{docs: docs}
}

func (r *candidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	return storeErr(r.docs.Set(ctx, locationPath(candidatesRoot, c.Location, c.ID), encodeCandidate(c)))
}

func (r *candidateRepository) Get(ctx context.Context, loc domain.LocationPath, id string) (*domain.Candidate, error) {
	doc, err := r.docs.Get(ctx, locationPath(candidatesRoot, loc, id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	c := decodeCandidate(doc, loc, id)
	return &c, nil
}

func (r *candidateRepository) ListByLocation(ctx context.Context, loc domain.LocationPath) ([]domain.Candidate, error) {
	prefix := locationPath(candidatesRoot, loc)
	entries, err := r.docs.List(ctx, prefix)
	if err != nil {
		return nil, storeErr(err)
	}

	candidates := make([]domain.Candidate, 0, len(entries))
	for _, e := range entries {
		segments := e.Segments(prefix)
		if len(segments) != 1 {
			continue
		}
		candidates = append(candidates, decodeCandidate(e.Document, loc, segments[0]))
	}
	return candidates, nil
}

// ListLeaves returns every candidate record in the tree, with location and id
// taken from the key path.
func (r *candidateRepository) ListLeaves(ctx context.Context) ([]domain.CandidateLeaf, error) {
	entries, err := r.docs.List(ctx, candidatesRoot)
	if err != nil {
		return nil, storeErr(err)
	}

	leaves := make([]domain.CandidateLeaf, 0, len(entries))
	for _, e := range entries {
		segments := e.Segments(candidatesRoot)
		if len(segments) != domain.LocationDepth+1 {
			continue
		}
		loc, err := domain.LocationFromSegments(segments[:domain.LocationDepth])
		if err != nil {
			continue
		}
		id := segments[domain.LocationDepth]
		leaves = append(leaves, domain.CandidateLeaf{
			Location:    loc,
			CandidateID: id,
			Candidate:   decodeCandidate(e.Document, loc, id),
		})
	}
	return leaves, nil
}

func (r *candidateRepository) RootExists(ctx context.Context) (bool, error) {
	ok, err := r.docs.Exists(ctx, candidatesRoot)
	return ok, storeErr(err)
}

func (r *candidateRepository) StateExists(ctx context.Context, state string) (bool, error) {
	ok, err := r.docs.Exists(ctx, store.Join(candidatesRoot, state))
	return ok, storeErr(err)
}

// RecordVote adds exactly one vote and stamps lastVoteTimestamp in a single
// atomic store operation. It never creates a candidate.
func (r *candidateRepository) RecordVote(ctx context.Context, loc domain.LocationPath, id string, at time.Time, guard *VoteGuard) (int64, error) {
	opts := store.IncrementOptions{
		Set:             store.Document{"lastVoteTimestamp": formatMillis(at.UnixMilli())},
		RequireExisting: true,
	}
	if guard != nil {
		opts.GuardPath = locationPath(hasVotedRoot, guard.Location, guard.VoterNumber)
		opts.GuardDocument = store.Document{
			"candidateId": id,
			"votedAt":     formatMillis(at.UnixMilli()),
		}
	}

	count, err := r.docs.Increment(ctx, locationPath(candidatesRoot, loc, id), "voteCount", 1, opts)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return 0, domain.ErrCandidateVanished
	case errors.Is(err, store.ErrGuardExists):
		return 0, domain.ErrAlreadyVoted
	case err != nil:
		return 0, storeErr(err)
	}
	return count, nil
}

func encodeCandidate(c *domain.Candidate) store.Document {
	doc := store.Document{
		"id":                c.ID,
		"name":              c.Name,
		"aadharNumber":      c.AadharNumber,
		"phoneNumber":       c.PhoneNumber,
		"party":             c.Party,
		"symbolName":        c.SymbolName,
		"symbolImageBase64": c.SymbolImageBase64,
		"voteCount":         strconv.FormatInt(c.VoteCount, 10),
		"timestamp":         formatTime(c.Timestamp),
	}
	if c.LastVoteTimestamp != nil {
		doc["lastVoteTimestamp"] = formatMillis(*c.LastVoteTimestamp)
	}
	putLocation(doc, c.Location)
	return doc
}

func decodeCandidate(doc store.Document, loc domain.LocationPath, id string) domain.Candidate {
	return domain.Candidate{
		ID:                id,
		Name:              doc["name"],
		AadharNumber:      doc["aadharNumber"],
		PhoneNumber:       doc["phoneNumber"],
		Party:             doc["party"],
		SymbolName:        doc["symbolName"],
		SymbolImageBase64: doc["symbolImageBase64"],
		Location:          loc,
		VoteCount:         doc.Int("voteCount"),
		LastVoteTimestamp: doc.OptionalInt("lastVoteTimestamp"),
		Timestamp:         parseTime(doc["timestamp"]),
	}
}
