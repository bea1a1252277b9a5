package dashboard

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Date layouts per supported locale. The first entry is the fallback.
var dateLocales = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Spanish, "2/1/2006"},
	{language.Italian, "2/1/2006"},
	{language.Dutch, "2-1-2006"},
	{language.Polish, "2.01.2006"},
	{language.Russian, "02.01.2006"},
	{language.Latvian, "02.01.2006."},
	{language.Japanese, "2006/1/2"},
	{language.Chinese, "2006/1/2"},
	{language.Korean, "2006. 1. 2."},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(dateLocales))
	for i, l := range dateLocales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// ParseLocale accepts BCP 47 tags as well as POSIX values such as
// "en_GB.UTF-8". Anything unparseable yields American English.
func ParseLocale(s string) language.Tag {
	s, _, _ = strings.Cut(s, ".")
	s, _, _ = strings.Cut(s, "@")
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// FormatDate renders t as a short date in the closest supported locale. A
// zero time renders as "-".
func FormatDate(t time.Time, tag language.Tag) string {
	if t.IsZero() {
		return "-"
	}
	_, i, _ := dateMatcher.Match(tag)
	return t.Format(dateLocales[i].layout)
}

func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Summary is the one-line count shown above the table, e.g. "1,204 payments".
func Summary(total int, tag language.Tag) string {
	p := message.NewPrinter(tag)
	if total == 1 {
		return p.Sprintf("%d payment", total)
	}
	return p.Sprintf("%d payments", total)
}
