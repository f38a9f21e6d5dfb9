// Package events publishes vote and registration notifications for
// downstream consumers such as live tallies and audit trails.
package events

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	SubjectVoteCast        = "voting.vote.cast"
	SubjectVoterRegistered = "voting.voter.registered"
)

type VoteCast struct {
	CandidateID string `msgpack:"candidate_id"`
	State       string `msgpack:"state"`
	District    string `msgpack:"district"`
	SubDistrict string `msgpack:"sub_district"`
	Village     string `msgpack:"village"`
	VoteCount   int64  `msgpack:"vote_count"`
	CastAt      int64  `msgpack:"cast_at"`
}

type VoterRegistered struct {
	VoterNumber  string `msgpack:"voter_number"`
	State        string `msgpack:"state"`
	District     string `msgpack:"district"`
	SubDistrict  string `msgpack:"sub_district"`
	Village      string `msgpack:"village"`
	RegisteredBy string `msgpack:"registered_by,omitempty"`
	RegisteredAt int64  `msgpack:"registered_at"`
}

type Publisher interface {
	PublishVoteCast(ctx context.Context, event VoteCast) error
	PublishVoterRegistered(ctx context.Context, event VoterRegistered) error
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

type natsPublisher struct {
	conn Conn
}

func NewNATSPublisher(conn Conn) Publisher {
	return &natsPublisher{conn: conn}
}

func (p *natsPublisher) PublishVoteCast(ctx context.Context, event VoteCast) error {
	return p.publish(SubjectVoteCast, event)
}

func (p *natsPublisher) PublishVoterRegistered(ctx context.Context, event VoterRegistered) error {
	return p.publish(SubjectVoterRegistered, event)
}

func (p *natsPublisher) publish(subject string, event any) error {
	data, err := msgpack.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event for subject %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

type noopPublisher struct{}

// NewNoopPublisher is used when no event bus is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishVoteCast(context.Context, VoteCast) error { return nil }

func (noopPublisher) PublishVoterRegistered(context.Context, VoterRegistered) error { return nil }
