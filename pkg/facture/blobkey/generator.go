// Package blobkey generates storage keys for uploaded blobs.
package blobkey

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator defines the interface for blob key generation strategies.
type Generator interface {
	// GenerateKey creates a storage key for an upload. The original
	// file name only contributes its extension.
	GenerateKey(fileName string) string
}

// UUIDGenerator produces collision-resistant keys of the form
// <32 hex chars><original extension>. This is the recommended scheme.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) GenerateKey(fileName string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return id + sanitizeExt(fileName)
}

// TimestampGenerator produces keys of the form <unix millis><original
// extension>. Near-simultaneous uploads can collide under this scheme;
// it exists only so stores written by the legacy naming convention stay
// addressable alongside new uploads.
type TimestampGenerator struct {
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{Now: time.Now}
}

func (g *TimestampGenerator) GenerateKey(fileName string) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return fmt.Sprintf("%d%s", now().UnixMilli(), sanitizeExt(fileName))
}

// sanitizeExt extracts the extension and strips characters that are
// unsafe in storage keys.
func sanitizeExt(fileName string) string {
	ext := filepath.Ext(fileName)
	replacer := strings.NewReplacer(
		"/", "",
		"\\", "",
		":", "",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
		" ", "",
	)
	return replacer.Replace(ext)
}
