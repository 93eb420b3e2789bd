// Package selector maps a method name and its ordered argument types to a
// 4-byte selector under one of two hash families.
package selector

import (
	"fmt"
	"hash"
	"strings"

	"github.com/tjfoc/gmsm/sm3"
	"golang.org/x/crypto/sha3"
)

// Family is a hash algorithm used for ABI selectors and event topics.
// Networks standardize on one of them; contracts carry selectors for both.
type Family uint8

const (
	Keccak256 Family = iota
	SM3
)

// Families lists every supported family.
var Families = []Family{Keccak256, SM3}

func (f Family) String() string {
	switch f {
	case Keccak256:
		return "keccak256"
	case SM3:
		return "sm3"
	default:
		return fmt.Sprintf("family(%d)", uint8(f))
	}
}

// ParseFamily parses a family name as used in configuration.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keccak256", "keccak", "":
		return Keccak256, nil
	case "sm3":
		return SM3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
}

func (f Family) newHash() hash.Hash {
	switch f {
	case SM3:
		return sm3.New()
	default:
		return sha3.NewLegacyKeccak256()
	}
}

// Sum returns the 32-byte digest of data.
func (f Family) Sum(data []byte) [32]byte {
	h := f.newHash()
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
