package card

import (
	"strconv"
	"strings"

	"github.com/streakstats/streakcard/pkg/calendar"
	apperrors "github.com/streakstats/streakcard/pkg/errors"
)

// Date patterns are built from single-character tokens; any other
// character is emitted verbatim:
//
//	Y  four-digit year        y  two-digit year
//	m  zero-padded month      n  month without padding
//	d  zero-padded day        j  day without padding
//	M  abbreviated month name F  full month name
//
// A segment wrapped in square brackets is included only when the date lies
// outside the current year, so "M j[, Y]" reads "Mar 5" this year and
// "Mar 5, 2019" otherwise. Brackets do not nest.

type segmentKind int

const (
	segLiteral segmentKind = iota
	segToken
	segGroup
)

type segment struct {
	kind  segmentKind
	text  string    // literal text or the single token character
	inner []segment // segGroup only
}

// FormatDate renders d according to pattern. Dates in currentYear omit
// bracketed segments. A malformed pattern returns an INVALID_ARGUMENT
// error; callers degrade to the locale's default pattern.
func FormatDate(d calendar.Date, pattern string, loc Locale, currentYear int) (string, error) {
	segs, err := parsePattern(pattern)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	renderSegments(&b, segs, d, loc, d.Year != currentYear)
	return b.String(), nil
}

// ValidPattern reports whether pattern parses.
func ValidPattern(pattern string) bool {
	_, err := parsePattern(pattern)
	return err == nil
}

func parsePattern(pattern string) ([]segment, error) {
	var segs []segment
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '[':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '[' {
					return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "invalid date_format: nested brackets")
				}
				if runes[j] == ']' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "invalid date_format: unclosed bracket")
			}
			inner, err := parsePattern(string(runes[i+1 : end]))
			if err != nil {
				return nil, err
			}
			segs = append(segs, segment{kind: segGroup, inner: inner})
			i = end
		case ']':
			return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "invalid date_format: unmatched ]")
		case 'Y', 'y', 'm', 'n', 'd', 'j', 'M', 'F':
			segs = append(segs, segment{kind: segToken, text: string(r)})
		default:
			segs = append(segs, segment{kind: segLiteral, text: string(r)})
		}
	}
	return segs, nil
}

func renderSegments(b *strings.Builder, segs []segment, d calendar.Date, loc Locale, showBrackets bool) {
	for _, s := range segs {
		switch s.kind {
		case segLiteral:
			b.WriteString(s.text)
		case segToken:
			b.WriteString(tokenValue(s.text, d, loc))
		case segGroup:
			if showBrackets {
				renderSegments(b, s.inner, d, loc, showBrackets)
			}
		}
	}
}

func tokenValue(token string, d calendar.Date, loc Locale) string {
	switch token {
	case "Y":
		return strconv.Itoa(d.Year)
	case "y":
		return pad2(d.Year % 100)
	case "m":
		return pad2(int(d.Month))
	case "n":
		return strconv.Itoa(int(d.Month))
	case "d":
		return pad2(d.Day)
	case "j":
		return strconv.Itoa(d.Day)
	case "M":
		return loc.monthShort(int(d.Month))
	case "F":
		return loc.monthFull(int(d.Month))
	default:
		return token
	}
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
