package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestParseLocale(t *testing.T) {
	cases := map[string]string{
		"":                  "en-US",
		"C":                 "en-US",
		"POSIX":             "en-US",
		"en_GB.UTF-8":       "en-GB",
		"de_DE.UTF-8":       "de-DE",
		"sr_RS.UTF-8@latin": "sr-RS",
		"lv-LV":             "lv-LV",
		"!!":                "en-US",
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLocale(in).String(), in)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 3, 9, 15, 4, 0, 0, time.UTC)

	cases := map[string]string{
		"en-US": "3/9/2025",
		"en-GB": "09/03/2025",
		"de-DE": "9.3.2025",
		"lv-LV": "09.03.2025.",
		"ja-JP": "2025/3/9",
		"sw":    "3/9/2025",
	}
	for tag, want := range cases {
		assert.Equal(t, want, FormatDate(d, language.MustParse(tag)), tag)
	}
	assert.Equal(t, "-", FormatDate(time.Time{}, language.AmericanEnglish))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
	assert.Equal(t, "12.30", FormatAmount(decimal.RequireFromString("12.3")))
	assert.Equal(t, "1.01", FormatAmount(decimal.RequireFromString("1.005")))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "1 payment", Summary(1, language.AmericanEnglish))
	assert.Equal(t, "1,204 payments", Summary(1204, language.AmericanEnglish))
	assert.Equal(t, "1.204 payments", Summary(1204, language.German))
}
