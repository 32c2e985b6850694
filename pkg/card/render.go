// Package card renders contribution streak statistics as a themeable
// SVG card.
//
// The card is a fixed 495x195 canvas with three columns: total
// contributions, current streak (with ring and flame), and longest streak.
// Output is deterministic for a given input; all variability comes from
// the stats, the resolved theme parameters, and the reference date.
package card

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/streakstats/streakcard/pkg/calendar"
	"github.com/streakstats/streakcard/pkg/streak"
)

// Canvas geometry. Column text is anchored at x=81.5 inside groups
// translated to 1, 166 and 331, which centers it at 82.5, 247.5 and 412.5.
const (
	cardWidth  = 495
	cardHeight = 195

	leftColumnX   = 1
	centerColumnX = 166
	rightColumnX  = 331

	separatorLeftX  = 165
	separatorRightX = 330
)

// Text width budgets, in characters, before a second line is started.
const (
	sideLabelBudget    = 24
	currentLabelBudget = 22
	dateRangeBudget    = 28
)

const labelLineOffset = -9

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// Render draws the streak card for stats. The theme, locale and date
// pattern all come from p; today anchors the "current year" rule that
// hides redundant year digits.
func Render(stats streak.Stats, p Params, today calendar.Date) []byte {
	loc, _ := LookupLocale(p.Locale)
	pattern := loc.DateFormat
	if p.DateFormat != "" && ValidPattern(p.DateFormat) {
		pattern = p.DateFormat
	}
	sep := loc.separator()

	fmtDate := func(d calendar.Date) string {
		s, err := FormatDate(d, pattern, loc, today.Year)
		if err != nil {
			s, _ = FormatDate(d, loc.DateFormat, loc, today.Year)
		}
		return escapeXML(s)
	}
	fmtRange := func(r streak.Range) string {
		if r.Start == r.End {
			return fmtDate(r.Start)
		}
		return fmtDate(r.Start) + " " + sep + " " + fmtDate(r.End)
	}

	totalRange := fmtDate(stats.FirstContribution) + " " + sep + " " + escapeXML(loc.Present)

	var b bytes.Buffer
	writeHeader(&b, p)
	writeFrame(&b, p)

	writeSideColumn(&b, p, leftColumnX,
		groupDigits(stats.TotalContributions),
		escapeXML(loc.Total),
		totalRange)

	writeCenterColumn(&b, p,
		groupDigits(stats.CurrentStreak.Length),
		escapeXML(loc.Current),
		fmtRange(stats.CurrentStreak))

	writeSideColumn(&b, p, rightColumnX,
		groupDigits(stats.LongestStreak.Length),
		escapeXML(loc.Longest),
		fmtRange(stats.LongestStreak))

	b.WriteString("</svg>\n")
	return b.Bytes()
}

// RenderError draws a card-shaped error panel so failed requests still
// produce a valid embeddable image.
func RenderError(message string, p Params) []byte {
	var b bytes.Buffer
	writeHeader(&b, p)
	writeFrame(&b, p)

	fmt.Fprintf(&b, "<g transform='translate(%d,74)'>\n", centerColumnX-leftColumnX)
	fmt.Fprintf(&b, "<text x='%s' y='21' text-anchor='middle' class='message' fill='%s'>%s</text>\n",
		textAnchorX, cssColor(p.Color("dates")),
		SplitLines(escapeXML(message), dateRangeBudget, 0))
	b.WriteString("</g>\n")

	b.WriteString("</svg>\n")
	return b.Bytes()
}

func writeHeader(b *bytes.Buffer, p Params) {
	fmt.Fprintf(b, "<svg xmlns='http://www.w3.org/2000/svg' width='%d' height='%d' viewBox='0 0 %d %d'>\n",
		cardWidth, cardHeight, cardWidth, cardHeight)

	b.WriteString("<style>\n")
	b.WriteString("text { font-family: 'Segoe UI', Ubuntu, sans-serif; }\n")
	b.WriteString(".stat { font: 700 28px sans-serif; }\n")
	b.WriteString(".label { font: 400 14px sans-serif; }\n")
	b.WriteString(".date, .message { font: 400 12px sans-serif; }\n")
	b.WriteString("@keyframes currstreak { 0% { font-size: 3px; opacity: 0.2; } 80% { font-size: 34px; opacity: 1; } 100% { font-size: 28px; opacity: 1; } }\n")
	b.WriteString("@keyframes fadein { 0% { opacity: 0; } 100% { opacity: 1; } }\n")
	for _, extra := range p.Extras {
		fmt.Fprintf(b, ".%s { fill: %s; }\n", extra.Name, cssColor(extra.Value))
	}
	b.WriteString("</style>\n")
}

func writeFrame(b *bytes.Buffer, p Params) {
	strokeOpacity := 1
	if p.HideBorder {
		strokeOpacity = 0
	}
	fmt.Fprintf(b, "<rect x='0.5' y='0.5' rx='%g' width='%d' height='%d' stroke='%s' stroke-opacity='%d' fill='%s'/>\n",
		p.BorderRadius, cardWidth-1, cardHeight-1,
		cssColor(p.Color("border")), strokeOpacity, cssColor(p.Color("background")))

	for _, x := range []int{separatorLeftX, separatorRightX} {
		fmt.Fprintf(b, "<line x1='%d' y1='28' x2='%d' y2='170' stroke='%s' stroke-width='1'/>\n",
			x, x, cssColor(p.Color("stroke")))
	}
}

// writeSideColumn draws the total-contributions and longest-streak columns:
// big number, label, date line.
func writeSideColumn(b *bytes.Buffer, p Params, tx int, number, label, dates string) {
	fmt.Fprintf(b, "<g transform='translate(%d,48)' style='animation: fadein 0.5s linear forwards 0.4s' opacity='0'>\n", tx)
	fmt.Fprintf(b, "<text x='%s' y='32' text-anchor='middle' class='stat' fill='%s'>%s</text>\n",
		textAnchorX, cssColor(p.Color("sideNums")), number)
	b.WriteString("</g>\n")

	fmt.Fprintf(b, "<g transform='translate(%d,84)' style='animation: fadein 0.5s linear forwards 0.5s' opacity='0'>\n", tx)
	fmt.Fprintf(b, "<text x='%s' y='32' text-anchor='middle' class='label' fill='%s'>%s</text>\n",
		textAnchorX, cssColor(p.Color("sideLabels")), SplitLines(label, sideLabelBudget, labelLineOffset))
	b.WriteString("</g>\n")

	fmt.Fprintf(b, "<g transform='translate(%d,114)' style='animation: fadein 0.5s linear forwards 0.6s' opacity='0'>\n", tx)
	fmt.Fprintf(b, "<text x='%s' y='32' text-anchor='middle' class='date' fill='%s'>%s</text>\n",
		textAnchorX, cssColor(p.Color("dates")), SplitLines(dates, dateRangeBudget, 0))
	b.WriteString("</g>\n")
}

// writeCenterColumn draws the current-streak column with its ring and
// flame decorations.
func writeCenterColumn(b *bytes.Buffer, p Params, number, label, dates string) {
	// Ring behind the number, with a gap at the top for the flame.
	fmt.Fprintf(b, "<g style='animation: fadein 0.5s linear forwards 0.4s' opacity='0'>\n")
	fmt.Fprintf(b, "<circle cx='247.5' cy='71' r='40' fill='none' stroke='%s' stroke-width='5' stroke-dasharray='251.33' stroke-dashoffset='25' transform='rotate(-100 247.5 71)'/>\n",
		cssColor(p.Color("ring")))
	b.WriteString("</g>\n")

	fmt.Fprintf(b, "<g transform='translate(235,19.5)' style='animation: fadein 0.5s linear forwards 0.6s' opacity='0'>\n")
	fmt.Fprintf(b, "<path d='M 1.5 0.67 C 1.5 0.67 2.24 3.32 2.24 5.47 C 2.24 7.53 0.89 9.2 -1.17 9.2 C -3.23 9.2 -4.79 7.53 -4.79 5.47 C -4.79 5.18 -4.76 4.9 -4.7 4.63 C -7.31 5.87 -9 8.46 -9 11.5 C -9 15.64 -5.64 19 -1.5 19 C 2.64 19 6 15.64 6 11.5 C 6 5.47 1.5 0.67 1.5 0.67 Z' fill='%s' stroke-opacity='0'/>\n",
		cssColor(p.Color("fire")))
	b.WriteString("</g>\n")

	fmt.Fprintf(b, "<g transform='translate(%d,48)'>\n", centerColumnX)
	fmt.Fprintf(b, "<text x='%s' y='32' text-anchor='middle' class='stat' fill='%s' style='animation: currstreak 0.6s linear forwards'>%s</text>\n",
		textAnchorX, cssColor(p.Color("currStreakNum")), number)
	b.WriteString("</g>\n")

	fmt.Fprintf(b, "<g transform='translate(%d,108)' style='animation: fadein 0.5s linear forwards 0.9s' opacity='0'>\n", centerColumnX)
	fmt.Fprintf(b, "<text x='%s' y='32' text-anchor='middle' class='label' fill='%s'>%s</text>\n",
		textAnchorX, cssColor(p.Color("currStreakLabel")), SplitLines(label, currentLabelBudget, labelLineOffset))
	b.WriteString("</g>\n")

	fmt.Fprintf(b, "<g transform='translate(%d,145)' style='animation: fadein 0.5s linear forwards 0.9s' opacity='0'>\n", centerColumnX)
	fmt.Fprintf(b, "<text x='%s' y='21' text-anchor='middle' class='date' fill='%s'>%s</text>\n",
		textAnchorX, cssColor(p.Color("dates")), SplitLines(dates, dateRangeBudget, 0))
	b.WriteString("</g>\n")
}

// groupDigits renders n with a comma every three digits: 1234567 becomes
// "1,234,567".
func groupDigits(n int) string {
	if n < 0 {
		return "-" + groupDigits(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return groupDigits(n/1000) + fmt.Sprintf(",%03d", n%1000)
}

// cssColor prefixes bare hex values with '#' and escapes everything for
// embedding in a single-quoted attribute. Named CSS colors pass through.
func cssColor(v string) string {
	switch len(v) {
	case 3, 4, 6, 8:
		if isHex(v) {
			return "#" + v
		}
	}
	return escapeXML(v)
}

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
