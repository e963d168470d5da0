package domain

import (
	"strconv"
	"unicode/utf16"
)

// Digest folds secret into a decimal checksum: hash = hash*31 + c over the
// UTF-16 code units, with 32-bit two's-complement wraparound. It is not a
// cryptographic hash; stored credentials depend on this exact output.
func Digest(secret string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(secret)) {
		h = (h << 5) - h + int32(c)
	}
	return strconv.FormatInt(int64(h), 10)
}
