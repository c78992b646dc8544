package hash

import (
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/featab/endian"
)

var le = endian.GetLittleEndianEngine()

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest accumulates fixed-width values into an xxHash64 sum. Values are fed in
// little-endian order so the sum does not depend on the host.
type Digest struct {
	d   *xxhash.Digest
	buf [8]byte
}

// New returns an empty digest.
func New() *Digest {
	return &Digest{d: xxhash.New()}
}

// Uint64 feeds v into the digest.
func (d *Digest) Uint64(v uint64) {
	le.PutUint64(d.buf[:], v)
	_, _ = d.d.Write(d.buf[:])
}

// Int feeds v into the digest.
func (d *Digest) Int(v int) { d.Uint64(uint64(v)) }

// Float64 feeds the IEEE 754 bits of v into the digest.
func (d *Digest) Float64(v float64) { d.Uint64(math.Float64bits(v)) }

// Sum64 returns the current sum.
func (d *Digest) Sum64() uint64 { return d.d.Sum64() }
