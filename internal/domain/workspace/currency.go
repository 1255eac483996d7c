package workspace

import (
	"strings"

	"golang.org/x/text/currency"
)

// Currencies las 55 monedas ISO-4217 aceptadas para un cliente.
var Currencies = []string{
	"USD", "EUR", "GBP", "CAD", "AUD", "NZD", "JPY", "CNY", "HKD", "SGD",
	"INR", "KRW", "BRL", "MXN", "ARS", "CLP", "COP", "PEN", "ZAR", "NGN",
	"EGP", "MAD", "KES", "GHS", "TZS", "UGX", "RWF", "ILS", "AED", "SAR",
	"QAR", "KWD", "BHD", "OMR", "TRY", "PLN", "CZK", "HUF", "RON", "SEK",
	"NOK", "DKK", "CHF", "RUB", "UAH", "BGN", "ISK", "PKR", "BDT", "LKR",
	"THB", "MYR", "IDR", "VND", "PHP",
}

var currencySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Currencies))
	for _, c := range Currencies {
		m[c] = struct{}{}
	}
	return m
}()

// NormalizeCurrency devuelve el código canónico si pertenece al catálogo.
func NormalizeCurrency(code string) (string, bool) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", false
	}
	canonical := unit.String()
	if _, ok := currencySet[canonical]; !ok {
		return "", false
	}
	return canonical, true
}
