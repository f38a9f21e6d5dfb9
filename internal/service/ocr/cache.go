package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedEngine remembers recognised text per image so retrying extraction on
// the same image does not run OCR again.
type CachedEngine struct {
	next  Engine
	cache *cache.Cache
}

func NewCachedEngine(next Engine, ttl time.Duration) *CachedEngine {
	return &CachedEngine{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (e *CachedEngine) Recognize(ctx context.Context, image []byte, contentType string, progress ProgressFunc) (string, error) {
	sum := sha256.Sum256(image)
	key := hex.EncodeToString(sum[:])

	if text, ok := e.cache.Get(key); ok {
		if progress != nil {
			progress(1)
		}
		return text.(string), nil
	}

	text, err := e.next.Recognize(ctx, image, contentType, progress)
	if err != nil {
		return "", err
	}
	e.cache.SetDefault(key, text)
	return text, nil
}
