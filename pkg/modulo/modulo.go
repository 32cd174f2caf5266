// Package modulo implements the mathematical (Euclidean) remainder of a signed
// dividend by a strictly positive modulus.
//
// Go's % operator truncates toward zero, so -1 % 5 == -1. Modulo corrects the
// sign and always returns a value in [0, m).
//
// A modulus that is zero or does not fit into int64 is a contract violation:
// the functions of this package panic instead of returning an error.
package modulo

import (
	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"
)

var (
	ErrNonPositiveModulus = errors.New("modulus must be strictly positive")
	ErrModulusOverflow    = errors.New("modulus does not fit into int64")
	ErrPostcondition      = errors.New("remainder is out of range")
)

// Modulus is a strictly positive modulus. The zero value is invalid.
type Modulus struct {
	m int64
}

// NewModulus validates m and returns it as a Modulus.
func NewModulus(m uint64) (Modulus, error) {
	if m == 0 {
		return Modulus{}, ErrNonPositiveModulus
	}
	sm, err := safecast.ToInt64(m)
	if err != nil {
		return Modulus{}, errors.Wrapf(ErrModulusOverflow, "modulus %d: %v", m, err)
	}
	return Modulus{m: sm}, nil
}

// MustModulus is like NewModulus but panics on invalid input.
func MustModulus(m uint64) Modulus {
	md, err := NewModulus(m)
	if err != nil {
		panic(err)
	}
	return md
}

func (md Modulus) Uint64() uint64 {
	return uint64(md.m)
}

// Reduce returns n mod md in [0, md).
func (md Modulus) Reduce(n int64) uint64 {
	if md.m <= 0 {
		panic(errors.Wrap(ErrNonPositiveModulus, "reduce with zero Modulus"))
	}
	// r is in (-m, m), so r+m is in (0, 2m) and always fits into uint64.
	// uint64(r) wraps for negative r and the sum wraps back.
	r := n % md.m
	u := uint64(md.m)
	res := (uint64(r) + u) % u
	if res >= u {
		panic(errors.Wrapf(ErrPostcondition, "modulo(%d, %d) == %d", n, u, res))
	}
	return res
}

// Modulo returns the non-negative remainder of n divided by m.
// It panics if m is zero or greater than math.MaxInt64.
func Modulo(n int64, m uint64) uint64 {
	return MustModulus(m).Reduce(n)
}
