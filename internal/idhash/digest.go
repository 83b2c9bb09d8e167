// Package idhash computes deterministic identifiers for generated content.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Digest computes SHA256 of content.
// Returns hex-encoded hash (64 characters).
func Digest(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// BundleDigest computes a digest over a set of named files.
// Formula: SHA256(name|digest\n ...) over names in sorted order, so the
// result is independent of write order.
func BundleDigest(files map[string][]byte) string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		fmt.Fprintf(h, "%s|%s\n", name, Digest(files[name]))
	}
	return hex.EncodeToString(h.Sum(nil))
}
