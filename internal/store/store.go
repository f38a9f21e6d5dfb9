// Package store is the key-path document store every voter, candidate and
// role record lives in. Paths are "/"-joined segments; each leaf holds one
// flat document.
package store

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrNotFound    = errors.New("store: path not found")
	ErrGuardExists = errors.New("store: guard path already exists")
	ErrExists      = errors.New("store: path already exists")
	ErrUnavailable = errors.New("store: unavailable")
)

type Document map[string]string

func (d Document) Int(field string) int64 {
	v, err := strconv.ParseInt(d[field], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (d Document) OptionalInt(field string) *int64 {
	raw, ok := d[field]
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

type Entry struct {
	Path     string
	Document Document
}

// Segments returns the path segments of the entry below prefix.
func (e Entry) Segments(prefix string) []string {
	rest := strings.TrimPrefix(e.Path, strings.TrimSuffix(prefix, "/")+"/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

type IncrementOptions struct {
	// Set is written to the same document in the same atomic step.
	Set Document
	// RequireExisting fails with ErrNotFound instead of creating the document.
	RequireExisting bool
	// GuardPath, when set, makes the increment conditional on nothing existing
	// at GuardPath; GuardDocument is written there atomically with the increment.
	GuardPath     string
	GuardDocument Document
}

type Store interface {
	Get(ctx context.Context, path string) (Document, error)
	Set(ctx context.Context, path string, doc Document) error
	// Create writes doc only if nothing is stored at path yet, failing with
	// ErrExists otherwise.
	Create(ctx context.Context, path string, doc Document) error
	Update(ctx context.Context, path string, fields Document) error
	Increment(ctx context.Context, path, field string, delta int64, opts IncrementOptions) (int64, error)
	Exists(ctx context.Context, path string) (bool, error)
	List(ctx context.Context, prefix string) ([]Entry, error)
}

func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
}
