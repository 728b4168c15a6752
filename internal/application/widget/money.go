package widget

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMoneyFormat is used when the bundle settings carry no format
const DefaultMoneyFormat = "${{amount}}"

var moneyPlaceholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// FormatMoney renders amount with a shop money format such as "${{amount}}"
// or "{{amount_with_comma_separator}} €".
func FormatMoney(amount decimal.Decimal, format string) string {
	if format == "" {
		format = DefaultMoneyFormat
	}

	return moneyPlaceholder.ReplaceAllStringFunc(format, func(token string) string {
		name := moneyPlaceholder.FindStringSubmatch(token)[1]
		switch name {
		case "amount":
			return delimit(amount, 2, ",", ".")
		case "amount_no_decimals":
			return delimit(amount, 0, ",", ".")
		case "amount_with_comma_separator":
			return delimit(amount, 2, ".", ",")
		case "amount_no_decimals_with_comma_separator":
			return delimit(amount, 0, ".", ",")
		case "amount_with_apostrophe_separator":
			return delimit(amount, 2, "'", ".")
		default:
			return delimit(amount, 2, ",", ".")
		}
	})
}

func delimit(amount decimal.Decimal, precision int32, thousands, decimals string) string {
	neg := amount.IsNegative()
	fixed := amount.Abs().StringFixed(precision)

	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.Grow(len(fixed) + len(whole)/3 + 1)
	if neg {
		b.WriteByte('-')
	}

	rem := len(whole) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(whole[:rem])
	for i := rem; i < len(whole); i += 3 {
		b.WriteString(thousands)
		b.WriteString(whole[i : i+3])
	}

	if frac != "" {
		b.WriteString(decimals)
		b.WriteString(frac)
	}
	return b.String()
}
