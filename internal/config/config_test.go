package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 0.6, cfg.FaceMatchThreshold)
	assert.Equal(t, 100*time.Millisecond, cfg.FaceAuthPollInterval)
	assert.Equal(t, 30*time.Second, cfg.FaceAuthTimeout)
	assert.Equal(t, "auto", cfg.ResultsTreeShape)
	assert.Equal(t, "MH", cfg.ResultsSingleState)
	assert.False(t, cfg.SingleBallot)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FACE_MATCH_THRESHOLD", "0.5")
	t.Setenv("FACE_AUTH_TIMEOUT", "5s")
	t.Setenv("SINGLE_BALLOT", "true")
	t.Setenv("RESULTS_TREE_SHAPE", "multi")
	t.Setenv("ENVIRONMENT", "memory")

	cfg := Load()

	assert.Equal(t, 0.5, cfg.FaceMatchThreshold)
	assert.Equal(t, 5*time.Second, cfg.FaceAuthTimeout)
	assert.True(t, cfg.SingleBallot)
	assert.Equal(t, "multi", cfg.ResultsTreeShape)
	assert.True(t, cfg.UsesMemoryStore())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("FACE_MATCH_THRESHOLD", "close")
	t.Setenv("FACE_AUTH_POLL_INTERVAL", "often")
	t.Setenv("SINGLE_BALLOT", "maybe")

	cfg := Load()

	assert.Equal(t, 0.6, cfg.FaceMatchThreshold)
	assert.Equal(t, 100*time.Millisecond, cfg.FaceAuthPollInterval)
	assert.False(t, cfg.SingleBallot)
}
