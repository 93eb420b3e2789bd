package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/govm-net/contract/types"
)

var (
	ErrUnknownFamily = errors.New("unknown hash family")
	ErrInvalidType   = errors.New("invalid type")
	ErrInvalidName   = errors.New("invalid method name")
	ErrCollision     = errors.New("selector collision")
)

// Signature builds the canonical signature name(t1,t2,...).
func Signature(name string, argTypes ...string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	canon := make([]string, len(argTypes))
	for i, t := range argTypes {
		c, err := CanonicalType(t)
		if err != nil {
			return "", err
		}
		canon[i] = c
	}
	return name + "(" + strings.Join(canon, ",") + ")", nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

// FromSignature hashes an already canonical signature.
func FromSignature(f Family, sig string) types.Selector {
	sum := f.Sum([]byte(sig))
	var s types.Selector
	copy(s[:], sum[:types.SelectorLength])
	return s
}

// Compute returns the selector of name over argTypes under family f.
func Compute(f Family, name string, argTypes ...string) (types.Selector, error) {
	sig, err := Signature(name, argTypes...)
	if err != nil {
		return types.Selector{}, err
	}
	return FromSignature(f, sig), nil
}

// Pair holds the selector of one signature under every family.
type Pair struct {
	Keccak256 types.Selector
	SM3       types.Selector
}

// For returns the selector for family f.
func (p Pair) For(f Family) types.Selector {
	if f == SM3 {
		return p.SM3
	}
	return p.Keccak256
}

// PairOf computes both selectors of a canonical signature.
func PairOf(sig string) Pair {
	return Pair{
		Keccak256: FromSignature(Keccak256, sig),
		SM3:       FromSignature(SM3, sig),
	}
}

// Topic returns the full 32-byte event topic for a canonical signature.
func Topic(f Family, sig string) types.Hash {
	return types.Hash(f.Sum([]byte(sig)))
}
