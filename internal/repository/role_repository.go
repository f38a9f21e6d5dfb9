package repository

import (
	"context"
	"errors"

	"online-voting/internal/domain"
	"online-voting/internal/store"
)

// RoleRepository keeps role and profile records in the document store,
// keyed by user id.
type RoleRepository interface {
	GetRole(ctx context.Context, userID string) (domain.Role, bool, error)
	SetRole(ctx context.Context, userID string, role domain.Role) error
	SaveProfile(ctx context.Context, userID string, role domain.Role, profile domain.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
}

type roleRepository struct {
	docs store.Store
}

func NewRoleRepository(docs store.Store) RoleRepository {
	return &roleRepository{docs: docs}
}

func (r *roleRepository) GetRole(ctx context.Context, userID string) (domain.Role, bool, error) {
	doc, err := r.docs.Get(ctx, store.Join(userRolesRoot, userID))
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr(err)
	}
	role := domain.Role(doc["role"])
	if !role.IsValid() {
		return "", false, nil
	}
	return role, true, nil
}

func (r *roleRepository) SetRole(ctx context.Context, userID string, role domain.Role) error {
	return storeErr(r.docs.Set(ctx, store.Join(userRolesRoot, userID), store.Document{"role": string(role)}))
}

// SaveProfile writes both the users/{id} record and the role-bucketed
// sign-up profile.
func (r *roleRepository) SaveProfile(ctx context.Context, userID string, role domain.Role, p domain.UserProfile) error {
	doc := store.Document{
		"firstName": p.FirstName,
		"email":     p.Email,
		"createdAt": formatTime(p.CreatedAt),
	}
	if p.LastName != "" {
		doc["lastName"] = p.LastName
	}
	if p.ProfileImage != "" {
		doc["profileImage"] = p.ProfileImage
	}
	if err := r.docs.Update(ctx, store.Join(usersRoot, userID), doc); err != nil {
		return storeErr(err)
	}

	bucketed := doc.Clone()
	bucketed["role"] = string(role)
	return storeErr(r.docs.Set(ctx, store.Join(usersRoot, role.ProfilePath(), userID), bucketed))
}

func (r *roleRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	doc, err := r.docs.Get(ctx, store.Join(usersRoot, userID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &domain.UserProfile{
		FirstName:    doc["firstName"],
		LastName:     doc["lastName"],
		Email:        doc["email"],
		ProfileImage: doc["profileImage"],
		CreatedAt:    parseTime(doc["createdAt"]),
	}, nil
}
