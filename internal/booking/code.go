package booking

import "crypto/rand"

// codeAlphabet omits characters that read ambiguously on a phone screen or
// over a counter (0/O, 1/I/L).
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const codeLength = 8

// NewCode returns a short human-readable confirmation code. Codes are
// collision-resistant, not secret; uniqueness is enforced by the store's
// unique index and callers retry on conflict.
func NewCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out)
}
