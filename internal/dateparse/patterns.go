package dateparse

import (
	"fmt"
	"regexp"
	"strings"
)

// Category is one of the seven pattern groups, in matching priority order.
type Category int

// Pattern groups in the order Parse tries them.
const (
	CategoryExact Category = iota
	CategoryMonthYear
	CategoryYear
	CategorySeason
	CategoryRelative
	CategoryFuzzy
	CategoryRange
)

var categoryNames = [...]string{
	CategoryExact:     "exact",
	CategoryMonthYear: "month_year",
	CategoryYear:      "year",
	CategorySeason:    "season",
	CategoryRelative:  "relative",
	CategoryFuzzy:     "fuzzy",
	CategoryRange:     "range",
}

func (c Category) String() string {
	if c >= CategoryExact && c <= CategoryRange {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Seasons recognized in season expressions, independent of the calendar.
var seasonNames = []string{"spring", "summer", "autumn", "winter", "harvest"}

// Seasons returns the season words every calendar accepts.
func Seasons() []string {
	return append([]string(nil), seasonNames...)
}

// Capture group names shared by the patterns and the extractors.
const (
	capDay       = "day"
	capDay2      = "day2"
	capMonth     = "month"
	capMonth2    = "month2"
	capYear      = "year"
	capSeason    = "season"
	capCount     = "count"
	capDirection = "direction"
	capEvent     = "event"
)

// pattern is one compiled grammar rule. confidence is what a fuzzy match
// of the rule reports.
type pattern struct {
	category   Category
	re         *regexp.Regexp
	confidence float64
}

// patternGroup is the ordered list of rules of one category.
type patternGroup struct {
	category Category
	patterns []*pattern
}

// grammar holds the regex fragments every rule is assembled from.
type grammar struct {
	month   string
	month2  string
	weekday string
	day     string
	day2    string
	year    string
	season  string
}

// noMatch is a regex fragment that matches nothing. RE2 has no (?!), so an
// empty character class stands in.
const noMatch = `[^\x00-\x{10FFFF}]`

// alternation quotes the non-blank names and joins them with |. Blank names
// are left out so they cannot match empty input.
func alternation(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			quoted = append(quoted, regexp.QuoteMeta(name))
		}
	}
	return strings.Join(quoted, "|")
}

func newGrammar(m *CalendarModel) grammar {
	months := alternation(m.monthNames)
	if months == "" {
		months = noMatch
	}

	g := grammar{
		month:  `(?P<` + capMonth + `>` + months + `)`,
		month2: `(?P<` + capMonth2 + `>` + months + `)`,
		day:    `(?P<` + capDay + `>\d{1,2})(?:st|nd|rd|th)?`,
		day2:   `(?P<` + capDay2 + `>\d{1,2})(?:st|nd|rd|th)?`,
		year:   `(?P<` + capYear + `>\d{1,4})`,
		season: `(?P<` + capSeason + `>` + strings.Join(seasonNames, "|") + `)`,
	}

	if wd := alternation(m.weekdayNames); wd != "" {
		g.weekday = `(?:(?:` + wd + `)\s*,?\s*)?`
	}
	return g
}

// Connective phrases; all optional.
const (
	ofPart       = `(?:\s*of\s*)?`
	thePart      = `(?:the\s+)?`
	dayWordPart  = `(?:\s+day\s*)?`
	monthOfPart  = `(?:month\s+of\s+)?`
	sepPart      = `\s*,?\s*`
	timeModifier = `(?:early|mid|late)\s+`
	fuzzyWords   = `(?:around|approximately|about|circa)`
)

// sometimePrefix opens the low-confidence fuzzy rule.
const sometimePrefix = `sometime\s+(?:in|during)\s+`

// compilePatterns builds the seven pattern groups for a calendar.
func compilePatterns(m *CalendarModel) ([]patternGroup, error) {
	g := newGrammar(m)

	sources := []struct {
		category Category
		exprs    []string
	}{
		{CategoryExact, []string{
			g.weekday + thePart + g.day + dayWordPart + ofPart + g.month + sepPart + g.year,
			g.weekday + g.month + `\s+` + thePart + g.day + sepPart + g.year,
			g.weekday + g.day + `\s+` + g.month + sepPart + g.year,
			g.day + `\s+` + g.month + sepPart + g.year,
		}},
		{CategoryMonthYear, []string{
			g.month + `\s*` + g.year,
			`(?:in|during)\s+` + g.month + `\s*` + g.year,
			thePart + monthOfPart + g.month + sepPart + g.year,
		}},
		{CategoryYear, []string{
			`(?:year\s+)?` + g.year,
			`(?:in|during)\s+` + thePart + `(?:year\s+)?` + g.year,
		}},
		{CategorySeason, []string{
			timeModifier + g.season + `\s*` + ofPart + g.year,
			g.season + `\s*` + g.year,
		}},
		{CategoryRelative, []string{
			`(?P<` + capCount + `>\d{1,2})\s+days?\s+(?P<` + capDirection + `>before|after)\s+(?P<` + capEvent + `>.+)`,
			`(?:during|amid)\s+(?P<` + capEvent + `>.+)`,
		}},
		{CategoryFuzzy, []string{
			fuzzyWords + `\s+` + g.month + `\s+` + g.year,
			fuzzyWords + `\s+` + g.day + `\s+` + g.month + `\s+` + g.year,
			sometimePrefix + g.year,
		}},
		{CategoryRange, []string{
			`(?:from|between)\s+` + g.month + `\s+(?:and|to)\s+` + g.month2 + `\s+` + g.year,
			`from\s+` + g.day + `\s+to\s+` + g.day2 + `\s+` + g.month + `\s+` + g.year,
		}},
	}

	groups := make([]patternGroup, 0, len(sources))
	for _, src := range sources {
		group := patternGroup{category: src.category}
		for _, expr := range src.exprs {
			re, err := regexp.Compile(`(?i)^` + expr + `$`)
			if err != nil {
				return nil, configErrorf("compile %s pattern: %v", src.category, err)
			}
			pat := &pattern{category: src.category, re: re, confidence: 1.0}
			if src.category == CategoryFuzzy {
				pat.confidence = confidenceApproximate
				if strings.HasPrefix(expr, sometimePrefix) {
					pat.confidence = confidenceSometime
				}
			}
			group.patterns = append(group.patterns, pat)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// match is a successful regex match with its named captures. Captures that
// did not participate are absent.
type match struct {
	pattern *pattern
	text    string
	groups  map[string]string
	order   []string
}

// matchPattern runs p against text and collects the named captures in
// textual order.
func matchPattern(p *pattern, text string) (*match, bool) {
	idx := p.re.FindStringSubmatchIndex(text)
	if idx == nil {
		return nil, false
	}
	m := &match{pattern: p, text: text, groups: make(map[string]string)}
	names := p.re.SubexpNames()
	for i := 1; i < len(names); i++ {
		start, end := idx[2*i], idx[2*i+1]
		if start < 0 || names[i] == "" {
			continue
		}
		m.groups[names[i]] = strings.TrimSpace(text[start:end])
		m.order = append(m.order, names[i])
	}
	return m, true
}

// get returns the named capture, if it participated in the match.
func (m *match) get(name string) (string, bool) {
	v, ok := m.groups[name]
	return v, ok
}
