package calculator

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is used when no currency, or an unknown one, is given.
const DefaultCurrency = "XOF"

// DateLayout is the calendar-day format of expense dates.
const DateLayout = "2006-01-02"

var printer = message.NewPrinter(language.French)

// symbolOverrides holds symbols where the French CLDR form differs from the
// one x/text ships.
var symbolOverrides = map[string]string{
	"XOF": "F\u00a0CFA",
}

// FormatCurrency formats amount in French notation, rounded to the unit with
// halves away from zero, followed by the currency symbol: "1 501 F CFA",
// "13 €". Unknown currency codes fall back to DefaultCurrency.
func FormatCurrency(amount float64, currencyCode string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.MustParseISO(DefaultCurrency)
	}

	symbol, ok := symbolOverrides[unit.String()]
	if !ok {
		symbol = printer.Sprint(currency.Symbol(unit))
	}

	rounded := math.Round(amount)
	if rounded == 0 {
		rounded = 0 // no "-0"
	}
	return printer.Sprint(number.Decimal(rounded, number.MaxFractionDigits(0))) + "\u00a0" + symbol
}

// DateGroup holds the items sharing one expense date.
type DateGroup[T any] struct {
	Date  string
	Items []T
}

// GroupExpensesByDate buckets items by date, keeping the order in which each
// date first appears and the relative order of items within a date.
func GroupExpensesByDate[T any](items []T, dateOf func(T) string) []DateGroup[T] {
	groups := []DateGroup[T]{}
	index := make(map[string]int)

	for _, item := range items {
		date := dateOf(item)
		i, ok := index[date]
		if !ok {
			i = len(groups)
			index[date] = i
			groups = append(groups, DateGroup[T]{Date: date})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}

var (
	weekdaysFR = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}
	monthsFR   = [...]string{"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre"}
)

// FormatDate labels a YYYY-MM-DD date relative to now: "Aujourd'hui", "Hier",
// or a long French date such as "lundi 5 janvier".
// Dates that cannot be parsed are returned unchanged.
func FormatDate(date string, now time.Time) string {
	day := date
	if len(day) > len(DateLayout) {
		day = day[:len(DateLayout)]
	}

	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return date
	}

	switch day {
	case now.Format(DateLayout):
		return "Aujourd'hui"
	case now.AddDate(0, 0, -1).Format(DateLayout):
		return "Hier"
	}

	return fmt.Sprintf("%s %d %s", weekdaysFR[t.Weekday()], t.Day(), monthsFR[t.Month()-1])
}
