package api

import (
	"math/rand"
	"regexp"
	"strings"
)

const codeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
const codeLength = 6

// generateJoinCode creates a short code for joining rooms. The charset
// drops the lookalike characters 0/O, 1/I and L so codes survive being
// read aloud at the table.
func generateJoinCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

var joinCodeRegex = regexp.MustCompile("^[A-Z0-9]{6}$")

func normalizeJoinCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
