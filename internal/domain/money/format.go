package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format renders amount for display using locale-aware currency formatting.
// When the locale or currency code cannot be resolved it falls back to a
// fixed "$X.XX" string so callers always get something printable.
func Format(amount decimal.Decimal, locale, currencyCode string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return fallbackFormat(amount)
	}

	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return fallbackFormat(amount)
	}

	p := message.NewPrinter(tag)
	return p.Sprintf("%v", currency.NarrowSymbol(unit.Amount(amount.InexactFloat64())))
}

func fallbackFormat(amount decimal.Decimal) string {
	return "$" + RoundCurrency(amount).StringFixed(CurrencyPlaces)
}
