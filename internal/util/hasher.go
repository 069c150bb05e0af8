package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
)

// HashReaderSHA256 computes SHA256 from an io.Reader using a 64 KiB buffer.
func HashReaderSHA256(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, 64<<10)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashStringSHA256 is HashReaderSHA256 for in-memory script text.
func HashStringSHA256(s string) string {
	sum, _ := HashReaderSHA256(strings.NewReader(s))
	return sum
}
