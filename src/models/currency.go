// backend/src/models/currency.go
package models

// ReferenceCurrency is the single currency every transaction amount is
// normalized to for comparison.
const ReferenceCurrency = "GBP"

// CurrencyInfo couples the display region with the conversion rate to the
// reference currency. Keeping both in one table means a currency cannot have
// a region without a rate or vice versa.
type CurrencyInfo struct {
	Region    string
	RateToGBP float64
}

// currencyTable is the fixed set of accepted transaction currencies. The
// reference currency carries an explicit identity rate rather than relying on
// a special case in the conversion code.
var currencyTable = map[string]CurrencyInfo{
	"GBP": {Region: "United Kingdom", RateToGBP: 1},
	"KRW": {Region: "South Korea", RateToGBP: 0.00056417541},
	"EUR": {Region: "Europe", RateToGBP: 0.85},
	"INR": {Region: "India", RateToGBP: 0.0093},
	"CNY": {Region: "China", RateToGBP: 0.11},
	"NOK": {Region: "Norway", RateToGBP: 0.074},
	"USD": {Region: "United States", RateToGBP: 0.78},
	"THB": {Region: "Thailand", RateToGBP: 0.021},
	"CAD": {Region: "Canada", RateToGBP: 0.57},
}

// LookupCurrency returns the region and conversion rate for a currency code.
func LookupCurrency(code string) (CurrencyInfo, bool) {
	info, ok := currencyTable[code]
	return info, ok
}

// SupportedCurrencies returns the accepted currency codes, in no particular order.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(currencyTable))
	for code := range currencyTable {
		codes = append(codes, code)
	}
	return codes
}
