// Package format renders domain values the way they are shown to users.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/faktury-dev/faktury/internal/model"
)

var polishMonths = [12]string{
	"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca",
	"lipca", "sierpnia", "września", "października", "listopada", "grudnia",
}

// Currency renders an amount like "1 234.50 PLN".
func Currency(amount decimal.Decimal) string {
	return Amount(amount) + " PLN"
}

// Amount renders an amount like "1 234.50" without the currency.
func Amount(amount decimal.Decimal) string {
	return groupThousands(amount.StringFixed(2))
}

// NIP renders a tax ID as XXX-XXX-XX-XX. Anything that is not 10 digits is
// returned unchanged.
func NIP(nip string) string {
	d := digits(nip)
	if len(d) != 10 {
		return nip
	}
	return d[0:3] + "-" + d[3:6] + "-" + d[6:8] + "-" + d[8:10]
}

// Phone renders "XXX XXX XXX" or "+48 XXX XXX XXX". Unrecognised input is
// returned unchanged.
func Phone(phone string) string {
	d := digits(phone)
	switch {
	case len(d) == 9:
		return d[0:3] + " " + d[3:6] + " " + d[6:9]
	case len(d) == 11 && strings.HasPrefix(d, "48"):
		return "+48 " + d[2:5] + " " + d[5:8] + " " + d[8:11]
	default:
		return phone
	}
}

// Date renders a stored date as "02.01.2006", or returns it unchanged when
// it does not parse.
func Date(s string) string {
	t, ok := model.ParseTimestamp(s, time.Local)
	if !ok {
		return s
	}
	return t.Format("02.01.2006")
}

// DateTime renders a stored timestamp as "02.01.2006 15:04".
func DateTime(s string) string {
	t, ok := model.ParseTimestamp(s, time.Local)
	if !ok {
		return s
	}
	return t.Format("02.01.2006 15:04")
}

// DateLong renders a stored date as "5 marca 2024".
func DateLong(s string) string {
	t, ok := model.ParseTimestamp(s, time.Local)
	if !ok {
		return s
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), polishMonths[t.Month()-1], t.Year())
}

// Distance renders kilometres like "1 234 km".
func Distance(km float64) string {
	return groupThousands(fmt.Sprintf("%.0f", km)) + " km"
}

// Liters renders a fuel volume like "45.70 L".
func Liters(l float64) string {
	return fmt.Sprintf("%.2f L", l)
}

// Percent renders a percentage with one decimal, like "87.5%".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Truncate shortens s to max runes, ending with "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max < 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// CompanyName title-cases a company name and truncates it to 30 runes.
func CompanyName(name string) string {
	return Truncate(cases.Title(language.Polish).String(name), 30)
}

// groupThousands inserts a space every three digits of the integer part.
func groupThousands(num string) string {
	sign := ""
	if strings.HasPrefix(num, "-") {
		sign, num = "-", num[1:]
	}
	intPart, frac, hasFrac := strings.Cut(num, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
