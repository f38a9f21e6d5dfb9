package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"online-voting/internal/domain"
	"online-voting/internal/handler"
	"online-voting/internal/middleware"
	"online-voting/internal/repository"
	"online-voting/internal/service/events"
	"online-voting/internal/service/voting"
	"online-voting/internal/store"
)

func seedCandidate(t *testing.T, repo repository.CandidateRepository, c domain.Candidate) {
	t.Helper()
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	require.NoError(t, repo.Create(context.Background(), &c))
}

func TestVotingHandler(t *testing.T) {
	repo := repository.NewCandidateRepository(store.NewMemoryStore())
	seedCandidate(t, repo, domain.Candidate{ID: "C100", Name: "Ravi Kale", Party: "Shiv Sena", SymbolName: "Bow", Location: wagholi})

	h := handler.NewVotingHandler(voting.NewService(repo, events.NewNoopPublisher(), true, discardLogger()))
	app := newApp(operatorA, domain.RoleVoter)
	app.Get("/voting/candidates", h.ListCandidates)
	app.Post("/voting/votes", h.CastVote)

	t.Run("list", func(t *testing.T) {
		resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/voting/candidates?"+wagholiQuery, nil))

		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[struct{ Data []domain.Candidate }](t, body)
		require.Len(t, got.Data, 1)
		assert.Equal(t, "C100", got.Data[0].ID)
	})

	t.Run("empty village lists nothing", func(t *testing.T) {
		resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/voting/candidates?state=MH&district=Pune&sub_district=Haveli&village=Manjari", nil))

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"data":[]}`, string(body))
	})

	t.Run("cast", func(t *testing.T) {
		resp, body := do(t, app, jsonRequest(t, http.MethodPost, "/voting/votes", domain.CastVoteInput{
			Location: wagholi, CandidateID: "C100", VoterNumber: "ABC1234567",
		}))

		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		got := decode[struct{ Receipt domain.VoteReceipt }](t, body)
		assert.Equal(t, int64(1), got.Receipt.VoteCount)
	})

	t.Run("second ballot of the same voter", func(t *testing.T) {
		resp, body := do(t, app, jsonRequest(t, http.MethodPost, "/voting/votes", domain.CastVoteInput{
			Location: wagholi, CandidateID: "C100", VoterNumber: "ABC1234567",
		}))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "ALREADY_VOTED", decode[middleware.ErrorResponse](t, body).Code)
	})

	t.Run("vanished candidate", func(t *testing.T) {
		resp, body := do(t, app, jsonRequest(t, http.MethodPost, "/voting/votes", domain.CastVoteInput{
			Location: wagholi, CandidateID: "C999", VoterNumber: "XYZ0000001",
		}))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CANDIDATE_VANISHED", decode[middleware.ErrorResponse](t, body).Code)

		c, err := repo.Get(context.Background(), wagholi, "C999")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("incomplete location", func(t *testing.T) {
		resp, body := do(t, app, jsonRequest(t, http.MethodPost, "/voting/votes", domain.CastVoteInput{
			Location: domain.LocationPath{State: "MH"}, CandidateID: "C100", VoterNumber: "XYZ0000001",
		}))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "district", decode[middleware.ErrorResponse](t, body).Field)
	})
}
