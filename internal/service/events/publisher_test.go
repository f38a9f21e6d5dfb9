package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"online-voting/internal/service/events"
)

type recordingConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func TestNATSPublisher_VoteCast(t *testing.T) {
	conn := &recordingConn{}
	pub := events.NewNATSPublisher(conn)

	err := pub.PublishVoteCast(context.Background(), events.VoteCast{
		CandidateID: "C1", State: "MH", District: "Pune", VoteCount: 7, CastAt: 1700000000000,
	})

	require.NoError(t, err)
	require.Equal(t, []string{events.SubjectVoteCast}, conn.subjects)

	var decoded events.VoteCast
	require.NoError(t, msgpack.Unmarshal(conn.payloads[0], &decoded))
	assert.Equal(t, "C1", decoded.CandidateID)
	assert.Equal(t, int64(7), decoded.VoteCount)
}

func TestNATSPublisher_VoterRegistered(t *testing.T) {
	conn := &recordingConn{}
	pub := events.NewNATSPublisher(conn)

	require.NoError(t, pub.PublishVoterRegistered(context.Background(), events.VoterRegistered{VoterNumber: "ABC1234567"}))
	assert.Equal(t, []string{events.SubjectVoterRegistered}, conn.subjects)
}

func TestNATSPublisher_PublishError(t *testing.T) {
	pub := events.NewNATSPublisher(&recordingConn{err: errors.New("connection closed")})

	err := pub.PublishVoteCast(context.Background(), events.VoteCast{CandidateID: "C1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), events.SubjectVoteCast)
}

func TestNoopPublisher(t *testing.T) {
	pub := events.NewNoopPublisher()
	assert.NoError(t, pub.PublishVoteCast(context.Background(), events.VoteCast{}))
	assert.NoError(t, pub.PublishVoterRegistered(context.Background(), events.VoterRegistered{}))
}
