// Package matcher applies ordered regex pattern families to recognized text.
package matcher

import (
	"regexp"
	"strings"
)

// Family is an ordered list of patterns for one structured field.
// Patterns are tried in order and the first match wins; once a pattern
// matches, the rest are never consulted.
type Family struct {
	Name     string
	Sentinel string
	patterns []*regexp.Regexp
}

func NewFamily(name, sentinel string, patterns ...*regexp.Regexp) Family {
	return Family{
		Name:     name,
		Sentinel: sentinel,
		patterns: patterns,
	}
}

// Match returns the first matching pattern's captured value, or the family
// sentinel when nothing matches. A single capture group yields the group
// itself; a start/end pair of groups yields a "start至end" composite.
// The result is never empty.
func (f Family) Match(text string) string {
	for _, p := range f.patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		switch len(m) {
		case 2:
			return strings.TrimSpace(m[1])
		case 3:
			return strings.TrimSpace(m[1]) + "至" + strings.TrimSpace(m[2])
		}
	}

	return f.Sentinel
}

// Families bundles the four field families run against every detail page.
type Families struct {
	RegistrationWindow Family
	Eligibility        Family
	Organizer          Family
	CoOrganizer        Family
}

// DefaultFamilies returns the pattern families used for 大广赛 announcement
// pages. Order inside each family matters.
func DefaultFamilies() Families {
	return Families{
		RegistrationWindow: NewFamily("registration_window", "未找到报名日期",
			regexp.MustCompile(`报名日期[：:]\s*([\d年月日\s至]+)`),
			regexp.MustCompile(`报名时间[：:]\s*([\d年月日\s至]+)`),
			regexp.MustCompile(`(\d{4}年\d{1,2}月\d{1,2}日)[至到]\s*(\d{4}年\d{1,2}月\d{1,2}日)`),
			regexp.MustCompile(`(\d{4}\.\d{1,2}\.\d{1,2})[至到]\s*(\d{4}\.\d{1,2}\.\d{1,2})`),
			regexp.MustCompile(`(\d{4}年\d{1,2}月\d{1,2}日)\s*[起至到]\s*(\d{4}年\d{1,2}月\d{1,2}日)\s*[结束]?`),
			regexp.MustCompile(`(\d{4}\.\d{1,2}\.\d{1,2})\s*[起至到]\s*(\d{4}\.\d{1,2}\.\d{1,2})\s*[结束]?`),
		),
		Eligibility: NewFamily("eligibility", "未找到参赛要求",
			regexp.MustCompile(`参赛对象[：:]\s*([^。\n]+)`),
			regexp.MustCompile(`参赛资格[：:]\s*([^。\n]+)`),
			regexp.MustCompile(`参赛人员[：:]\s*([^。\n]+)`),
			regexp.MustCompile(`参赛范围[：:]\s*([^。\n]+)`),
		),
		Organizer: NewFamily("organizer", "未找到主办方",
			regexp.MustCompile(`主办[：:]\s*([^。\n]+)`),
			regexp.MustCompile(`主办单位[：:]\s*([^。\n]+)`),
			regexp.MustCompile(`主办方[：:]\s*([^。\n]+)`),
		),
		CoOrganizer: NewFamily("co_organizer", "未找到承办方",
			regexp.MustCompile(`承办[：:]\s*([^。\n]+)`),
			regexp.MustCompile(`承办单位[：:]\s*([^。\n]+)`),
			regexp.MustCompile(`承办方[：:]\s*([^。\n]+)`),
		),
	}
}
