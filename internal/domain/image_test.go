package domain_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"online-voting/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDecodeImage(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString(pngHeader)

	t.Run("data url", func(t *testing.T) {
		data, ct, err := domain.DecodeImage("data:image/jpeg;base64," + raw)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", ct)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("bare base64 sniffs type", func(t *testing.T) {
		_, ct, err := domain.DecodeImage(raw)
		require.NoError(t, err)
		assert.Equal(t, "image/png", ct)
	})

	t.Run("rejects non images", func(t *testing.T) {
		_, _, err := domain.DecodeImage(base64.StdEncoding.EncodeToString([]byte("hello world")))
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, _, err := domain.DecodeImage("data:image/png;base64,***")
		assert.True(t, domain.IsValidationError(err))
	})
}
