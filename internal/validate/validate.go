package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reEmail     = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ         = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
	reID        = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reStudentID = regexp.MustCompile(`^[A-Za-z0-9]{5,20}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length.
// An empty query is valid and means no filter.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (product/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// StudentID is optional; when present it must be 5-20 letters or digits.
func StudentID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reStudentID.MatchString(s)
}

// Name validates a displayable name with a reasonable length window.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Password requires at least 6 characters, one of them a digit.
func Password(s string) bool {
	if len(s) < 6 || len(s) > 72 {
		return false
	}
	for _, r := range s {
		if '0' <= r && r <= '9' {
			return true
		}
	}
	return false
}

// Money parses a non-negative decimal amount. Empty input is reported as absent.
func Money(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	if d.IsNegative() {
		return decimal.Zero, false, strconv.ErrRange
	}
	return d, true, nil
}
