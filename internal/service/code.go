package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// codeAlphabet omits 0/O and 1/I so codes can be typed back from a printed voucher
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeRandomLen = 8

// CodeGenerator produces redemption codes: a base36 millisecond timestamp
// followed by codeRandomLen characters drawn from a cryptographic source.
type CodeGenerator struct {
	now  func() time.Time
	rand io.Reader
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{now: time.Now, rand: rand.Reader}
}

func (g *CodeGenerator) Next() (string, error) {
	buf := make([]byte, codeRandomLen)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(strings.ToUpper(strconv.FormatInt(g.now().UnixMilli(), 36)))
	for _, b := range buf {
		sb.WriteByte(codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return sb.String(), nil
}

// NormalizeCode trims and upper-cases a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
