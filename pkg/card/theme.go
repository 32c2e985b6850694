package card

import (
	_ "embed"
	"regexp"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
	apperrors "github.com/streakstats/streakcard/pkg/errors"
)

//go:embed themes.toml
var themesTOML []byte

// presets holds the named theme tables, decoded once at startup and
// read-only thereafter.
var presets = mustDecodeThemes(themesTOML)

func mustDecodeThemes(data []byte) map[string]map[string]string {
	var t map[string]map[string]string
	if err := toml.Unmarshal(data, &t); err != nil {
		panic("card: invalid embedded themes.toml: " + err.Error())
	}
	if _, ok := t["default"]; !ok {
		panic("card: themes.toml is missing the default theme")
	}
	return t
}

// DefaultBorderRadius is the rounded-rectangle radius of the card frame.
const DefaultBorderRadius = 4.5

// colorKeys are the fixed-schema theme slots, in card drawing order.
var colorKeys = []string{
	"background", "border", "stroke", "ring", "fire",
	"currStreakNum", "sideNums", "currStreakLabel", "sideLabels", "dates",
}

// reservedKeys are request parameters that are not theme colors.
var reservedKeys = map[string]bool{
	"user":          true,
	"type":          true,
	"theme":         true,
	"locale":        true,
	"date_format":   true,
	"hide_border":   true,
	"border_radius": true,
}

// extraNamePattern limits extra property names to identifier-ish strings so
// user input cannot break out of the generated stylesheet.
var extraNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ExtraProperty is a user-named color accent outside the fixed schema.
// It carries no meaning beyond its color value.
type ExtraProperty struct {
	Name  string
	Value string
}

// Params is the resolved, flat theme parameter set for one render.
type Params struct {
	Colors       map[string]string // fixed schema, keyed by colorKeys
	BorderRadius float64
	HideBorder   bool
	Locale       string
	DateFormat   string
	Extras       []ExtraProperty // sorted by name
}

// Color returns the resolved color for a fixed-schema slot.
func (p Params) Color(key string) string { return p.Colors[key] }

// ResolveTheme layers request parameters over a named preset over the
// hard defaults and returns the flattened parameter set.
//
// Priority, lowest to highest: default theme < named preset < individual
// request parameters. Color values are normalized with [NormalizeColor];
// request keys outside the fixed schema become [ExtraProperty] accents,
// sorted by name for deterministic output.
//
// An unknown preset name returns an UNKNOWN_THEME error and an unknown
// locale tag an UNKNOWN_LOCALE error, in both cases together with
// parameters resolved against the defaults, so callers can log and keep
// rendering rather than abort.
func ResolveTheme(params map[string]string) (Params, error) {
	merged := make(map[string]string, len(colorKeys))
	for k, v := range presets["default"] {
		merged[k] = v
	}

	var resolveErr error
	if name := params["theme"]; name != "" && name != "default" {
		if preset, ok := presets[name]; ok {
			for k, v := range preset {
				merged[k] = v
			}
		} else {
			resolveErr = apperrors.New(apperrors.ErrCodeUnknownTheme, "could not find theme %s", name)
		}
	}
	if tag := params["locale"]; tag != "" && resolveErr == nil {
		if _, ok := LookupLocale(tag); !ok {
			resolveErr = apperrors.New(apperrors.ErrCodeUnknownLocale, "could not find locale %s", tag)
		}
	}

	resolved := Params{
		Colors:       make(map[string]string, len(colorKeys)),
		BorderRadius: DefaultBorderRadius,
		Locale:       params["locale"],
		DateFormat:   params["date_format"],
	}

	for _, key := range colorKeys {
		value := merged[key]
		if v, ok := params[key]; ok {
			value = v
		}
		resolved.Colors[key] = NormalizeColor(value)
	}

	if v, ok := params["border_radius"]; ok {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			resolved.BorderRadius = r
		}
	}
	if v, ok := params["hide_border"]; ok {
		resolved.HideBorder = v == "true" || v == "1"
	}

	for name, value := range params {
		if reservedKeys[name] || isColorKey(name) {
			continue
		}
		if !extraNamePattern.MatchString(name) {
			continue
		}
		resolved.Extras = append(resolved.Extras, ExtraProperty{
			Name:  name,
			Value: NormalizeColor(value),
		})
	}
	sort.Slice(resolved.Extras, func(i, j int) bool {
		return resolved.Extras[i].Name < resolved.Extras[j].Name
	})

	return resolved, resolveErr
}

// ThemeNames returns the available preset names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isColorKey(name string) bool {
	for _, k := range colorKeys {
		if k == name {
			return true
		}
	}
	return false
}

// NormalizeColor strips a fully opaque alpha channel: an 8-digit hex value
// ending in FF resolves to its 6-digit form, so "FF0000FF" and "FF0000" are
// the same stored value. Anything else, including invalid colors, is passed
// through as-authored (garbage in, garbage out is the documented contract).
func NormalizeColor(v string) string {
	if len(v) == 8 && isHex(v) && (v[6] == 'F' || v[6] == 'f') && (v[7] == 'F' || v[7] == 'f') {
		return v[:6]
	}
	return v
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
