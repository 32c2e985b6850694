package card

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// textAnchorX is the fixed horizontal coordinate for wrapped text fragments
// in the card layout.
const textAnchorX = "81.5"

// linePitch is the vertical distance between the first and second line.
const linePitch = 16

// rangeSeparators mark the boundary of a date range; a split before the
// separator keeps each date on its own line.
var rangeSeparators = []string{" – ", " - "}

// SplitLines lays out text within a width budget of maxChars characters.
//
// If the text fits on one line it is returned unchanged. Otherwise it is
// broken into exactly two positioned <tspan> fragments: at an explicit line
// break when the input carries one (only the first is honored), before a
// date-range separator when present, or at the last word boundary within the
// budget. A single word longer than the budget is placed whole; words are
// never hyphenated. The first fragment sits at lineOffset, the second one
// line pitch below.
func SplitLines(text string, maxChars, lineOffset int) string {
	line1, line2 := breakText(text, maxChars)
	if line2 == "" {
		return line1
	}
	return fmt.Sprintf("<tspan x='%s' dy='%d'>%s</tspan><tspan x='%s' dy='%d'>%s</tspan>",
		textAnchorX, lineOffset, line1, textAnchorX, linePitch, line2)
}

func breakText(text string, maxChars int) (line1, line2 string) {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i], strings.ReplaceAll(text[i+1:], "\n", " ")
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text, ""
	}
	for _, sep := range rangeSeparators {
		// A separator only anchors the break when the first line it
		// produces stays within the budget.
		if i := strings.Index(text, sep); i >= 0 && utf8.RuneCountInString(text[:i]) <= maxChars {
			return text[:i], text[i+1:]
		}
	}
	return breakAtWordBoundary(text, maxChars)
}

// breakAtWordBoundary fills the first line greedily with whole words up to
// maxChars characters and puts the remainder on the second line.
func breakAtWordBoundary(text string, maxChars int) (string, string) {
	words := strings.Fields(text)
	if len(words) <= 1 {
		return text, ""
	}

	line := words[0]
	rest := 1
	for ; rest < len(words); rest++ {
		candidate := line + " " + words[rest]
		if utf8.RuneCountInString(candidate) > maxChars {
			break
		}
		line = candidate
	}
	if rest == len(words) {
		return line, ""
	}
	return line, strings.Join(words[rest:], " ")
}
