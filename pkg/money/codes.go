package money

// Code represents a currency code (e.g., "USD", "EUR").
type Code string

// Currency codes the transfer flow knows about.
const (
	USD Code = "USD" // US Dollar
	GBP Code = "GBP" // British Pound
	EUR Code = "EUR" // Euro
	SLL Code = "SLL" // Sierra Leonean Leone
)

// Common currency instances
var (
	USDCurrency = Currency{Code: USD, Decimals: 2, Symbol: "$"}
	GBPCurrency = Currency{Code: GBP, Decimals: 2, Symbol: "£"}
	EURCurrency = Currency{Code: EUR, Decimals: 2, Symbol: "€"}
	SLLCurrency = Currency{Code: SLL, Decimals: 2, Symbol: "Le"}
)

// DefaultCode is the currency a new transfer draft starts with.
var DefaultCode = USD

// ToCurrency converts a Code to a Currency with its decimals and symbol.
// Unknown codes default to two decimals and no symbol.
func (c Code) ToCurrency() Currency {
	switch c {
	case USD:
		return USDCurrency
	case GBP:
		return GBPCurrency
	case EUR:
		return EURCurrency
	case SLL:
		return SLLCurrency
	default:
		return Currency{Code: c, Decimals: 2}
	}
}

// IsValid checks if the currency code is three uppercase letters.
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	return c[0] >= 'A' && c[0] <= 'Z' &&
		c[1] >= 'A' && c[1] <= 'Z' &&
		c[2] >= 'A' && c[2] <= 'Z'
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}
