package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxControlRatio is the share of control runes above which input is treated as binary
const maxControlRatio = 0.05

// CheckText rejects content that is not plausibly human-readable text.
// Empty input is valid
func CheckText(s string) error {
	if s == "" {
		return nil
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("input is not valid UTF-8")
	}
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("input contains NUL bytes")
	}

	var total, control int
	for _, r := range s {
		total++
		if r == '\n' || r == '\r' || r == '\t' || r == '\f' {
			continue
		}
		if unicode.IsControl(r) || r == utf8.RuneError {
			control++
		}
	}
	if float64(control)/float64(total) > maxControlRatio {
		return fmt.Errorf("input looks binary: %d of %d characters are control characters", control, total)
	}
	return nil
}

// SplitLines splits on \n, tolerating \r\n line endings
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

// Truncate shortens s to at most n runes, appending "..." when something was cut
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
