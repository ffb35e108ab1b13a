package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// Source turns a seed string into one uniform draw in [0,1).
// Implementations must be pure: the same seed always yields the same value.
type Source interface {
	Float64(seed string) float64
}

// SourceFor resolves a source by its config name.
func SourceFor(name, salt string) (Source, error) {
	switch name {
	case "", "seedrandom":
		return SeedRandom{}, nil
	case "hmac":
		return HMAC{Salt: salt}, nil
	default:
		return nil, fmt.Errorf("unknown puzzle rng %q", name)
	}
}

// SeedRandom reproduces the first draw of the JavaScript `seedrandom` ARC4
// generator for a string seed, so browser clients and this engine agree on
// every day's answer.
type SeedRandom struct{}

const (
	rc4Width     = 256
	rc4Mask      = rc4Width - 1
	rc4Chunks    = 6
	startDenom   = 281474976710656.0  // 256^6
	significance = 4503599627370496.0 // 2^52
	overflow     = significance * 2
)

// Float64 seeds a fresh generator with seed and returns its first double.
func (SeedRandom) Float64(seed string) float64 {
	return newARC4(mixKey(seed)).double()
}

// mixKey folds the seed's UTF-16 code units into an ARC4 key.
func mixKey(seed string) []int {
	var key []int
	smear := 0
	for j, u := range utf16.Encode([]rune(seed)) {
		k := j & rc4Mask
		cur := 0
		if k < len(key) {
			cur = key[k]
		}
		smear ^= cur * 19
		v := (smear + int(u)) & rc4Mask
		if k < len(key) {
			key[k] = v
		} else {
			key = append(key, v)
		}
	}
	return key
}

type arc4 struct {
	i, j int
	s    [rc4Width]int
}

func newARC4(key []int) *arc4 {
	if len(key) == 0 {
		key = []int{0}
	}
	a := &arc4{}
	for i := range a.s {
		a.s[i] = i
	}
	j := 0
	for i := 0; i < rc4Width; i++ {
		t := a.s[i]
		j = (j + key[i%len(key)] + t) & rc4Mask
		a.s[i] = a.s[j]
		a.s[j] = t
	}
	// RC4-drop[256]
	a.next(rc4Width)
	return a
}

// next produces count bytes as a big-endian base-256 number.
func (a *arc4) next(count int) float64 {
	r := 0.0
	i, j := a.i, a.j
	for ; count > 0; count-- {
		i = (i + 1) & rc4Mask
		t := a.s[i]
		j = (j + t) & rc4Mask
		a.s[i] = a.s[j]
		a.s[j] = t
		r = r*rc4Width + float64(a.s[(a.s[i]+t)&rc4Mask])
	}
	a.i, a.j = i, j
	return r
}

// double builds a 52-bit-precision value in [0,1).
func (a *arc4) double() float64 {
	n := a.next(rc4Chunks)
	d := startDenom
	x := 0.0
	for n < significance {
		n = (n + x) * rc4Width
		d *= rc4Width
		x = a.next(1)
	}
	for n >= overflow {
		n /= 2
		d /= 2
		x = float64(uint32(x) >> 1)
	}
	return (n + x) / d
}

// HMAC derives the draw from HMAC-SHA256(salt, seed). Rotating the salt
// reshuffles the whole answer schedule.
type HMAC struct {
	Salt string
}

// Float64 maps the top 53 bits of the MAC onto [0,1).
func (h HMAC) Float64(seed string) float64 {
	m := hmac.New(sha256.New, []byte(h.Salt))
	m.Write([]byte(seed))
	sum := m.Sum(nil)
	n := binary.BigEndian.Uint64(sum[:8])
	return float64(n>>11) / (1 << 53)
}
