package card

import (
	_ "embed"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed locales.toml
var localesTOML []byte

var locales = mustDecodeLocales(localesTOML)

// DefaultSeparator joins the two dates of a range.
const DefaultSeparator = "–"

// Locale holds the translated card labels and date conventions for one
// language tag.
type Locale struct {
	Total      string   `toml:"total"`
	Current    string   `toml:"current"`
	Longest    string   `toml:"longest"`
	Present    string   `toml:"present"`
	DateFormat string   `toml:"date_format"`
	Months     []string `toml:"months"`
	MonthsFull []string `toml:"months_full"`
	Separator  string   `toml:"separator"`
}

func mustDecodeLocales(data []byte) map[string]Locale {
	var l map[string]Locale
	if err := toml.Unmarshal(data, &l); err != nil {
		panic("card: invalid embedded locales.toml: " + err.Error())
	}
	if _, ok := l["en"]; !ok {
		panic("card: locales.toml is missing en")
	}
	return l
}

// LookupLocale resolves a language tag to a locale table. Tags are matched
// case-insensitively with "-" and "_" treated the same; a regional tag
// falls back to its bare language ("pt-BR" matches pt_BR, "fr_CA" matches
// fr). Unknown tags resolve to English, reported by ok=false.
func LookupLocale(tag string) (Locale, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(tag), "-", "_")
	if normalized == "" {
		return locales["en"], true
	}

	for key, loc := range locales {
		if strings.EqualFold(key, normalized) {
			return loc, true
		}
	}
	if lang, _, found := strings.Cut(normalized, "_"); found {
		for key, loc := range locales {
			if strings.EqualFold(key, lang) {
				return loc, true
			}
		}
	}
	return locales["en"], false
}

// LocaleNames returns the supported language tags, unordered.
func LocaleNames() []string {
	names := make([]string, 0, len(locales))
	for name := range locales {
		names = append(names, name)
	}
	return names
}

// separator returns the range separator for the locale.
func (l Locale) separator() string {
	if l.Separator != "" {
		return l.Separator
	}
	return DefaultSeparator
}

// monthShort returns the abbreviated name for month (1-12), falling back to
// English when the locale carries no month table.
func (l Locale) monthShort(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	if len(l.Months) == 12 {
		return l.Months[month-1]
	}
	return locales["en"].Months[month-1]
}

func (l Locale) monthFull(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	if len(l.MonthsFull) == 12 {
		return l.MonthsFull[month-1]
	}
	return locales["en"].MonthsFull[month-1]
}
