package tracker

import (
	"strconv"
	"strings"
)

// ParseViews converts a display string like "1.2M views" or
// "45,123 views" to an integer count. The second return value is false
// when the text carries no usable number ("", "N/A", "No views", or
// non-numeric residue). The parse never fails loudly: ranking
// correctness depends on unparsable counts staying out of the snapshot
// stream, not on surfacing errors.
func ParseViews(text string) (int64, bool) {
	switch strings.TrimSpace(text) {
	case "", "N/A", "No views":
		return 0, false
	}

	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, "views", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	var mult float64 = 1
	switch s[len(s)-1] {
	case 'k':
		mult = 1_000
		s = s[:len(s)-1]
	case 'm':
		mult = 1_000_000
		s = s[:len(s)-1]
	case 'b':
		mult = 1_000_000_000
		s = s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return int64(f * mult), true
}
