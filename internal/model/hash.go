package model

import (
	"crypto/sha256"
	"fmt"
)

// ContentHash computes a stable, hex-encoded digest of file bytes. Two
// reads of unchanged content always hash equal, which is what lets the
// Engine skip re-analysis of a file whose hash hasn't moved since the
// last scan.
func ContentHash(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}
