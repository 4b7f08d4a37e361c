package i18n

import (
	"fmt"
	"strings"
)

// currencySymbols maps ISO 4217 currency codes to their display symbol.
// Currencies where the symbol precedes the amount use format "R$ 1.234,56".
var currencySymbols = map[string]struct {
	symbol string
	prefix bool
}{
	"BRL": {"R$", true},
	"USD": {"$", true},
	"EUR": {"€", true},
	"GBP": {"£", true},
	"ARS": {"$", true},
	"CLP": {"$", true},
	"MXN": {"$", true},
}

// FormatMoneyFromCents renders an amount in minor units as pt-BR BRL.
// Examples:
//
//	FormatMoneyFromCents(15000)   → "R$ 150,00"
//	FormatMoneyFromCents(123456)  → "R$ 1.234,56"
//	FormatMoneyFromCents(-5000)   → "-R$ 50,00"
func FormatMoneyFromCents(cents int64) string {
	return FormatCents(cents, "BRL")
}

// FormatCents renders an amount in minor units with the currency's symbol,
// using pt-BR digit grouping (dot thousands, comma decimals). Unknown currency
// codes fall back to "1.234,56 XYZ".
func FormatCents(cents int64, currencyCode string) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := cents / 100
	fraction := cents % 100
	amount := fmt.Sprintf("%s,%02d", groupThousands(whole), fraction)

	sign := ""
	if negative {
		sign = "-"
	}

	info, ok := currencySymbols[currencyCode]
	if !ok {
		return fmt.Sprintf("%s%s %s", sign, amount, currencyCode)
	}
	if info.prefix {
		return fmt.Sprintf("%s%s %s", sign, info.symbol, amount)
	}
	return fmt.Sprintf("%s%s %s", sign, amount, info.symbol)
}

// groupThousands inserts pt-BR thousands separators: 1234567 → "1.234.567"
func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return strings.Join(groups, ".")
}
