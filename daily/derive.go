// Package daily runs WordSeek of the Day: one derived word per game date, a
// six-attempt ledger per user and day-over-day streaks.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

const seedLabel = "wotd-permutation-seed"

// SeedFromSecret is the first four bytes, big-endian, of HMAC-SHA256(secret, label).
func SeedFromSecret(secret string) uint32 {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(seedLabel))
	return binary.BigEndian.Uint32(mac.Sum(nil)[:4])
}

// mulberry32 returns a generator of floats in [0, 1). All arithmetic wraps at
// 32 bits, so every instance produces the same stream for the same seed.
func mulberry32(seed uint32) func() float64 {
	t := seed
	return func() float64 {
		t += 0x6d2b79f5
		r := (t ^ (t >> 15)) * (1 | t)
		r = (r + (r^(r>>7))*(61|r)) ^ r
		return float64(r^(r>>14)) / 4294967296
	}
}

// Shuffle is a Fisher-Yates permutation of list driven by mulberry32(seed).
// list is not modified.
func Shuffle(list []string, seed uint32) []string {
	out := make([]string, len(list))
	copy(out, list)
	rnd := mulberry32(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := int(rnd() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deriver maps day indices to words. It is immutable once built.
type Deriver struct {
	shuffled []string
}

func NewDeriver(corpus []string, secret string) *Deriver {
	return &Deriver{shuffled: Shuffle(corpus, SeedFromSecret(secret))}
}

// WordForDay returns the word of day index d; negative indices wrap around.
func (d *Deriver) WordForDay(day int) string {
	n := len(d.shuffled)
	if n == 0 {
		return ""
	}
	return d.shuffled[((day%n)+n)%n]
}
