package checksum

import (
	"crypto/md5" //nolint:gosec
	"crypto/sha256"
	"fmt"
	"hash"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Algorithm names a supported digest algorithm.
type Algorithm string

const (
	XXHash Algorithm = "xxhash"
	Blake3 Algorithm = "blake3"
	SHA256 Algorithm = "sha256"
	MD5    Algorithm = "md5"
)

// DefaultAlgorithm is the fast non-cryptographic default.
const DefaultAlgorithm = XXHash

// ParseAlgorithm returns the [Algorithm] for a case-insensitive name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case XXHash, Blake3, SHA256, MD5:
		return a, nil
	case "":
		return DefaultAlgorithm, nil
	default:
		return "", fmt.Errorf("(checksum) %w: %q", ErrUnknownAlgorithm, name)
	}
}

// UnmarshalText allows an [Algorithm] to be used as a command-line flag.
func (a *Algorithm) UnmarshalText(b []byte) error {
	parsed, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = parsed

	return nil
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case Blake3:
		return blake3.New()
	case SHA256:
		return sha256.New()
	case MD5:
		return md5.New() //nolint:gosec
	case XXHash:
		return xxhash.New()
	default:
		return xxhash.New()
	}
}
