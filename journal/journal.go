// Package journal keeps an audit trail of completed merges.
package journal

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/daddykotex/pdf-edit-bulk/stamp"
)

const (
	SourceWeb = "web"
	SourceCLI = "cli"

	DefaultRecentLimit = 20
	MaxRecentLimit     = 500
)

type Entry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	ClientIP  string    `json:"client_ip"`
	Project   string    `json:"project"`
	Prefix    string    `json:"prefix"`
	Digest    string    `json:"digest"`
	Pages     int       `json:"pages"`
	Matched   int       `json:"matched"`
	Missing   int       `json:"missing"`
}

// TargetFields implements sqldb.Scannable, in the column order of recent.sql
func (e *Entry) TargetFields() []any {
	return []any{
		&e.ID, &e.CreatedAt, &e.Source, &e.ClientIP, &e.Project, &e.Prefix,
		&e.Digest, &e.Pages, &e.Matched, &e.Missing,
	}
}

// NewEntry fills an entry from a finished merge
func NewEntry(source, clientIP, digest string, opts stamp.MergeOptions, sum *stamp.Summary) Entry {
	e := Entry{
		CreatedAt: time.Now().UTC(),
		Source:    source,
		ClientIP:  clientIP,
		Project:   opts.Project,
		Prefix:    opts.Prefix,
		Digest:    digest,
	}
	if sum != nil {
		e.Pages, e.Matched, e.Missing = sum.Pages, sum.Matched, sum.Missing
	}
	return e
}

type Journal interface {
	Record(ctx context.Context, e Entry) error
	// Recent returns up to limit entries, newest first
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Pruner is implemented by journals that can drop old entries
type Pruner interface {
	// Prune deletes the entries created before the given time
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Nop is the journal used when none is configured
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

// ClampLimit maps a requested limit into [1, MaxRecentLimit]
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	}
	return limit
}

// Digest fingerprints the merge inputs: BLAKE2b-256 over the length-prefixed
// parts, hex encoded. Equal inputs give equal digests.
func Digest(parts ...[]byte) string {
	h, _ := blake2b.New256(nil) // only fails for an oversized key
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
