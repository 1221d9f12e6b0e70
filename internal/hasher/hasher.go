// Package hasher computes content digests for regular files.
package hasher

import (
	_ "crypto/sha256" // register for go-digest
	_ "crypto/sha512"
	"fmt"
	"hash"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/zeebo/blake3"

	"github.com/meigma/inventory/internal/platform"
)

// Unavailable is recorded instead of a digest when no hashing backend is
// configured. It is distinct from an empty hash, which means the file could
// not be read.
const Unavailable = "0000000000000000000000000000000000000000"

// Algorithm names accepted by New.
const (
	SHA256 = string(digest.SHA256)
	SHA384 = string(digest.SHA384)
	SHA512 = string(digest.SHA512)
	BLAKE3 = "blake3"
	None   = "none"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = SHA256

// Hasher streams file content through a digest.
type Hasher struct {
	alg     digest.Algorithm
	newHash func() hash.Hash
}

// New returns a Hasher for the named algorithm. Unknown or unavailable
// algorithms produce a Hasher that reports Unavailable for every file.
func New(name string) *Hasher {
	if name == "" {
		name = DefaultAlgorithm
	}
	h := &Hasher{alg: digest.Algorithm(name)}
	switch name {
	case BLAKE3:
		h.newHash = func() hash.Hash { return blake3.New() }
	case None:
	default:
		if h.alg.Available() {
			h.newHash = h.alg.Hash
		}
	}
	return h
}

// Algorithm returns the configured algorithm name.
func (h *Hasher) Algorithm() string {
	return string(h.alg)
}

// Available reports whether the Hasher produces real digests.
func (h *Hasher) Available() bool {
	return h.newHash != nil
}

// Hash returns the hex-encoded digest of the file at path. It returns
// Unavailable without touching the file when no backend is configured.
func (h *Hasher) Hash(path string) (string, error) {
	if !h.Available() {
		return Unavailable, nil
	}
	f, err := platform.OpenFileNoFollow(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	hh := h.newHash()
	if _, err := io.Copy(hh, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return digest.NewDigest(h.alg, hh).Encoded(), nil
}
