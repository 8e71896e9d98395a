package uniuri

import (
	"crypto/rand"
)

// StdLen gives about 95 bits of entropy with StdChars.
const StdLen = 16

// StdChars is the alphabet used by New and NewLen.
const StdChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// New returns a random string of StdLen characters from StdChars.
func New() string {
	return NewLenChars(StdLen, StdChars)
}

// NewLen returns a random string of length characters from StdChars.
func NewLen(length int) string {
	return NewLenChars(length, StdChars)
}

// NewLenChars returns a random string of length characters drawn uniformly
// from chars. It panics when chars has fewer than 2 or more than 256 bytes or
// when the system random source fails.
func NewLenChars(length int, chars string) string {
	if length <= 0 {
		return ""
	}

	n := len(chars)
	if n < 2 || n > 256 {
		panic("uniuri: charset must hold between 2 and 256 bytes")
	}

	// bytes >= limit are rejected, so every char has the same probability
	limit := 256 - (256 % n)
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2+8) //nolint:mnd

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			panic("uniuri: reading random bytes: " + err.Error())
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, chars[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}

	return string(out)
}
