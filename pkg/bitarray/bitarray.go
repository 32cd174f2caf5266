// Package bitarray provides a fixed-size array of bits packed eight per byte
// with in-place rotation of arbitrary subarrays.
package bitarray

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"

	"github.com/wavesplatform/everybit/pkg/modulo"
)

var ErrInvalidBit = errors.New("invalid bit character")

// BitArray stores Size() bits. Bit i lives in bit i%8 of byte i/8.
type BitArray struct {
	size int
	data []byte
}

// New allocates a zeroed bit array of the given size in bits.
func New(size int) *BitArray {
	if size < 0 {
		panic(fmt.Sprintf("bitarray: negative size %d", size))
	}
	return &BitArray{size: size, data: make([]byte, (size+7)/8)}
}

// FromByte creates an 8-bit array holding b.
func FromByte(b byte) *BitArray {
	return &BitArray{size: 8, data: []byte{b}}
}

// Parse creates a bit array from a string of '0' and '1' characters, most
// significant bit first: the last character becomes bit 0.
func Parse(bits string) (*BitArray, error) {
	ba := New(len(bits))
	last := len(bits) - 1
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
		case '1':
			ba.Set(last-i, true)
		default:
			return nil, errors.Wrapf(ErrInvalidBit, "%q at position %d", bits[i], i)
		}
	}
	return ba, nil
}

// MustParse is like Parse but panics on error.
func MustParse(bits string) *BitArray {
	ba, err := Parse(bits)
	if err != nil {
		panic(err)
	}
	return ba
}

func (ba *BitArray) Size() int {
	return ba.size
}

func (ba *BitArray) Get(i int) bool {
	ba.checkIndex(i)
	return ba.data[i/8]&mask(i) != 0
}

func (ba *BitArray) Set(i int, v bool) {
	ba.checkIndex(i)
	if v {
		ba.data[i/8] |= mask(i)
	} else {
		ba.data[i/8] &^= mask(i)
	}
}

// RandFill overwrites all bits with random values taken from r.
// A nil r uses a freshly seeded generator.
func (ba *BitArray) RandFill(r *rand.Rand) {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) // #nosec: not used for security
	}
	for i := 0; i < len(ba.data); i += 8 {
		v := r.Uint64()
		for j := i; j < i+8 && j < len(ba.data); j++ {
			ba.data[j] = byte(v)
			v >>= 8
		}
	}
	ba.clearTail()
}

// Rotate rotates the subarray [offset, offset+length) right by amount places,
// towards higher indices. A negative amount rotates left.
//
// For example, for the array 0b10010110, Rotate(2, 5, 2) rotates bits 2..6
// and leaves 0b11010010.
func (ba *BitArray) Rotate(offset, length, amount int) {
	if offset < 0 || length < 0 || offset > ba.size-length {
		panic(fmt.Sprintf("bitarray: subarray [%d, %d+%d) out of range [0, %d)", offset, offset, length, ba.size))
	}
	if length == 0 {
		return
	}
	right := int(modulo.Modulo(int64(amount), uint64(length)))
	ba.rotateLeft(offset, length, (length-right)%length)
}

// rotateLeft rotates [offset, offset+length) left by k < length places
// using the three reversals identity.
func (ba *BitArray) rotateLeft(offset, length, k int) {
	if k == 0 {
		return
	}
	end := offset + length
	ba.reverse(offset, offset+k)
	ba.reverse(offset+k, end)
	ba.reverse(offset, end)
}

// reverse reverses the bits in [from, to).
func (ba *BitArray) reverse(from, to int) {
	for i, j := from, to-1; i < j; i, j = i+1, j-1 {
		a, b := ba.Get(i), ba.Get(j)
		if a != b {
			ba.Set(i, b)
			ba.Set(j, a)
		}
	}
}

func (ba *BitArray) Equal(other *BitArray) bool {
	if ba.size != other.size {
		return false
	}
	for i := 0; i < ba.size; i++ {
		if ba.Get(i) != other.Get(i) {
			return false
		}
	}
	return true
}

// String returns the bits most significant first, the format accepted by Parse.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size)
	for i := ba.size - 1; i >= 0; i-- {
		if ba.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (ba *BitArray) checkIndex(i int) {
	if i < 0 || i >= ba.size {
		panic(fmt.Sprintf("bitarray: index %d out of range [0, %d)", i, ba.size))
	}
}

// clearTail zeroes the unused high bits of the last byte so that they
// never leak into byte-level comparisons.
func (ba *BitArray) clearTail() {
	if rem := ba.size % 8; rem != 0 {
		ba.data[len(ba.data)-1] &= byte(1)<<rem - 1
	}
}

func mask(i int) byte {
	return 1 << (i % 8)
}
