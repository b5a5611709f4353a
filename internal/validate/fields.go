package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// DefaultDateLayout is the layout Date uses.
const DefaultDateLayout = "2006-01-02"

const minYear = 2000

var (
	nipWeights = [9]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

	emailPattern        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	registrationPattern = regexp.MustCompile(`^[A-Z]{2,3}[0-9A-Z]{4,5}$`)

	maxAmount   = decimal.NewFromInt(1_000_000_000)
	maxDistance = decimal.NewFromInt(10_000)
	maxLiters   = decimal.NewFromInt(10_000)

	numberCleaner = strings.NewReplacer(",", ".", " ", "", "\u00a0", "", "\u202f", "")
	layoutLabels  = strings.NewReplacer("2006", "RRRR", "01", "MM", "02", "DD", "15", "GG", "04", "mm")
)

// NIP checks a Polish tax identification number. The value is the bare
// 10 digits.
func NIP(raw string) Result[string] {
	digits := extractDigits(raw)
	if len(digits) != 10 {
		return reject[string](KindLength, "NIP musi zawierać 10 cyfr")
	}
	if !nipChecksumOK(digits) {
		return reject[string](KindChecksum, "Nieprawidłowa suma kontrolna NIP")
	}
	return accept(digits)
}

// nipChecksumOK applies the weighted mod-11 rule. A remainder of 10 is
// never a valid check digit. Some descriptions of the rule map 10 to a check
// digit of 0 instead; that would accept "1234567890", which must stay invalid,
// so such numbers are rejected.
func nipChecksumOK(digits string) bool {
	sum := 0
	for i, w := range nipWeights {
		sum += int(digits[i]-'0') * w
	}
	check := sum % 11
	return check != 10 && check == int(digits[9]-'0')
}

// Phone checks a Polish mobile number. A leading 48 country code is
// dropped and the value is the 9 remaining digits.
func Phone(raw string) Result[string] {
	digits := extractDigits(raw)
	if len(digits) == 11 && strings.HasPrefix(digits, "48") {
		digits = digits[2:]
	}
	if len(digits) != 9 {
		return reject[string](KindLength, "Numer telefonu musi zawierać 9 cyfr")
	}
	if !strings.ContainsRune("45678", rune(digits[0])) {
		return reject[string](KindFormat, "Nieprawidłowy numer telefonu")
	}
	return accept(digits)
}

// Email checks an optional e-mail address. Empty input is accepted.
func Email(raw string) Result[string] {
	if raw == "" {
		return accept("")
	}
	if !emailPattern.MatchString(raw) {
		return reject[string](KindFormat, "Nieprawidłowy format email")
	}
	return accept(raw)
}

// Amount checks a money amount such as "1 234,50". Amounts are stored with
// two decimal places, so anything finer than a grosz is rejected.
func Amount(raw string) Result[decimal.Decimal] {
	amount, ok := parseNumber(raw)
	if !ok {
		return reject[decimal.Decimal](KindNotNumber, "Kwota musi być liczbą")
	}
	if !amount.Equal(amount.Round(2)) {
		return reject[decimal.Decimal](KindFormat, "Kwota może mieć najwyżej 2 miejsca po przecinku")
	}
	if !amount.IsPositive() {
		return reject[decimal.Decimal](KindOutOfRange, "Kwota musi być większa od 0")
	}
	if amount.GreaterThan(maxAmount) {
		return reject[decimal.Decimal](KindOutOfRange, "Kwota zbyt duża")
	}
	return accept(amount)
}

// Date checks raw against layout (DefaultDateLayout when empty) using the
// current year for the upper bound.
func Date(raw, layout string) Result[time.Time] {
	return DateAt(raw, layout, time.Now())
}

// DateAt is Date with an explicit reference time. The year must lie in
// [2000, now.Year()+10].
func DateAt(raw, layout string, now time.Time) Result[time.Time] {
	if layout == "" {
		layout = DefaultDateLayout
	}
	t, err := time.ParseInLocation(layout, raw, now.Location())
	if err != nil {
		return reject[time.Time](KindFormat, "Nieprawidłowy format daty (oczekiwano "+layoutLabels.Replace(layout)+")")
	}
	if t.Year() > now.Year()+10 {
		return reject[time.Time](KindOutOfRange, "Data zbyt daleka w przyszłości")
	}
	if t.Year() < minYear {
		return reject[time.Time](KindOutOfRange, "Data zbyt daleka w przeszłości")
	}
	return accept(t)
}

// PaymentTerm checks a payment term in days, 1 to 365.
func PaymentTerm(raw string) Result[int] {
	term, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return reject[int](KindNotNumber, "Termin płatności musi być liczbą całkowitą")
	}
	if term <= 0 {
		return reject[int](KindOutOfRange, "Termin płatności musi być większy od 0")
	}
	if term > 365 {
		return reject[int](KindOutOfRange, "Termin płatności nie może przekraczać 365 dni")
	}
	return accept(term)
}

// Distance checks a route length in kilometres, 0 to 10 000.
func Distance(raw string) Result[float64] {
	km, ok := parseNumber(raw)
	if !ok {
		return reject[float64](KindNotNumber, "Dystans musi być liczbą")
	}
	if km.IsNegative() {
		return reject[float64](KindOutOfRange, "Dystans nie może być ujemny")
	}
	if km.GreaterThan(maxDistance) {
		return reject[float64](KindOutOfRange, "Dystans zbyt duży")
	}
	return accept(km.InexactFloat64())
}

// Liters checks a fuel volume, above 0 and at most 10 000.
func Liters(raw string) Result[float64] {
	l, ok := parseNumber(raw)
	if !ok {
		return reject[float64](KindNotNumber, "Liczba litrów musi być liczbą")
	}
	if !l.IsPositive() {
		return reject[float64](KindOutOfRange, "Liczba litrów musi być większa od 0")
	}
	if l.GreaterThan(maxLiters) {
		return reject[float64](KindOutOfRange, "Liczba litrów zbyt duża")
	}
	return accept(l.InexactFloat64())
}

// RegistrationNumber checks an optional vehicle plate such as "WA 12345".
// The value is upper-cased with spaces removed.
func RegistrationNumber(raw string) Result[string] {
	if raw == "" {
		return accept("")
	}
	plate := strings.ToUpper(strings.ReplaceAll(raw, " ", ""))
	if !registrationPattern.MatchString(plate) {
		return reject[string](KindFormat, "Nieprawidłowy format numeru rejestracyjnego")
	}
	return accept(plate)
}

// Odometer checks an optional odometer reading in kilometres. Empty input
// is read as 0.
func Odometer(raw string) Result[int] {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, " ", ""))
	if raw == "" {
		return accept(0)
	}
	km, err := strconv.Atoi(raw)
	if err != nil {
		return reject[int](KindNotNumber, "Przebieg musi być liczbą całkowitą")
	}
	if km < 0 {
		return reject[int](KindOutOfRange, "Przebieg nie może być ujemny")
	}
	return accept(km)
}

func parseNumber(raw string) (decimal.Decimal, bool) {
	s := numberCleaner.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Year checks a vehicle production year, 1950 to next year.
func Year(raw string, now time.Time) Result[int] {
	y, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return reject[int](KindNotNumber, "Rok produkcji musi być liczbą całkowitą")
	}
	if y < 1950 || y > now.Year()+1 {
		return reject[int](KindOutOfRange, "Nieprawidłowy rok produkcji")
	}
	return accept(y)
}

// Consumption checks an expected fuel consumption in L/100km, above 0 and
// at most 100.
func Consumption(raw string) Result[float64] {
	c, ok := parseNumber(raw)
	if !ok {
		return reject[float64](KindNotNumber, "Spalanie musi być liczbą")
	}
	if !c.IsPositive() || c.GreaterThan(decimal.NewFromInt(100)) {
		return reject[float64](KindOutOfRange, "Nieprawidłowe spalanie")
	}
	return accept(c.InexactFloat64())
}
