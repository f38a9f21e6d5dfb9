package repository

import (
	"context"
	"errors"

	"online-voting/internal/domain"
	"online-voting/internal/store"
)

type VoterRepository interface {
	Create(ctx context.Context, voter *domain.Voter) error
	Get(ctx context.Context, loc domain.LocationPath, voterNumber string) (*domain.Voter, error)
	Exists(ctx context.Context, loc domain.LocationPath, voterNumber string) (bool, error)
	ListByLocation(ctx context.Context, loc domain.LocationPath) ([]domain.Voter, error)
}

type voterRepository struct {
	docs store.Store
}

func NewVoterRepository(docs store.Store) VoterRepository {
	return &voterRepository{docs: docs}
}

// Create fails with domain.ErrVoterExists when the voter number is already
// registered at the location, including when a concurrent submit won.
func (r *voterRepository) Create(ctx context.Context, v *domain.Voter) error {
	err := r.docs.Create(ctx, locationPath(votersRoot, v.Location, v.VoterNumber), encodeVoter(v))
	if errors.Is(err, store.ErrExists) {
		return domain.ErrVoterExists
	}
	return storeErr(err)
}

func (r *voterRepository) Get(ctx context.Context, loc domain.LocationPath, voterNumber string) (*domain.Voter, error) {
	doc, err := r.docs.Get(ctx, locationPath(votersRoot, loc, voterNumber))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	v := decodeVoter(doc, loc, voterNumber)
	return &v, nil
}

func (r *voterRepository) Exists(ctx context.Context, loc domain.LocationPath, voterNumber string) (bool, error) {
	ok, err := r.docs.Exists(ctx, locationPath(votersRoot, loc, voterNumber))
	return ok, storeErr(err)
}

func (r *voterRepository) ListByLocation(ctx context.Context, loc domain.LocationPath) ([]domain.Voter, error) {
	prefix := locationPath(votersRoot, loc)
	entries, err := r.docs.List(ctx, prefix)
	if err != nil {
		return nil, storeErr(err)
	}

	voters := make([]domain.Voter, 0, len(entries))
	for _, e := range entries {
		segments := e.Segments(prefix)
		if len(segments) != 1 {
			continue
		}
		voters = append(voters, decodeVoter(e.Document, loc, segments[0]))
	}
	return voters, nil
}

func encodeVoter(v *domain.Voter) store.Document {
	doc := store.Document{
		"voterNumber":     v.VoterNumber,
		"voterName":       v.VoterName,
		"fatherName":      v.FatherName,
		"gender":          v.Gender,
		"dateOfBirth":     v.DateOfBirth,
		"address.street":  v.Address.Street,
		"address.zipCode": v.Address.ZipCode,
		"faceImage":       v.FaceImage,
		"timestamp":       formatTime(v.Timestamp),
	}
	if v.IDDocumentPath != "" {
		doc["idDocumentPath"] = v.IDDocumentPath
	}
	if v.RegisteredBy != "" {
		doc["registeredBy"] = v.RegisteredBy
	}
	putLocation(doc, v.Location)
	return doc
}

func decodeVoter(doc store.Document, loc domain.LocationPath, voterNumber string) domain.Voter {
	return domain.Voter{
		VoterNumber: voterNumber,
		VoterName:   doc["voterName"],
		FatherName:  doc["fatherName"],
		Gender:      doc["gender"],
		DateOfBirth: doc["dateOfBirth"],
		Address: domain.Address{
			Street:  doc["address.street"],
			ZipCode: doc["address.zipCode"],
		},
		FaceImage:      doc["faceImage"],
		Location:       loc,
		IDDocumentPath: doc["idDocumentPath"],
		RegisteredBy:   doc["registeredBy"],
		Timestamp:      parseTime(doc["timestamp"]),
	}
}
