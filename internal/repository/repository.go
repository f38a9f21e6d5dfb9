package repository

import (
	"github.com/jmoiron/sqlx"

	"online-voting/internal/store"
)

type Repositories struct {
	User      UserRepository
	Session   SessionRepository
	Candidate CandidateRepository
	Voter     VoterRepository
	Role      RoleRepository
}

func NewRepositories(db *sqlx.DB, docs store.Store) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Session:   NewSessionRepository(db),
		Candidate: NewCandidateRepository(docs),
		Voter:     NewVoterRepository(docs),
		Role:      NewRoleRepository(docs),
	}
}
