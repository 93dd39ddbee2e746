package engine

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// FORMATTING — Display strings for KPI cards, tables and axis labels
// ============================================================================
// Display formatting never feeds back into computation.
// ============================================================================

// FormatOptions controls how KPI values are rendered.
type FormatOptions struct {
	CurrencySymbol string       // prefix for income, followed by a space
	Language       language.Tag // digit grouping rules
}

// DefaultFormat returns US-style formatting with a "$" prefix.
func DefaultFormat() FormatOptions {
	return FormatOptions{CurrencySymbol: "$", Language: language.English}
}

func (o FormatOptions) printer() *message.Printer {
	tag := o.Language
	if tag == language.Und {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// FormatRate renders a percentage with one decimal and a trailing "%".
func FormatRate(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatTenure renders years with one decimal.
func FormatTenure(years float64) string {
	return fmt.Sprintf("%.1f", years)
}

// FormatIncome renders a whole-unit amount with digit grouping, e.g. "$ 2,000".
// Halves round to even.
func (o FormatOptions) FormatIncome(amount float64) string {
	n := int64(math.RoundToEven(amount))
	grouped := o.printer().Sprintf("%d", n)
	if o.CurrencySymbol == "" {
		return grouped
	}
	return o.CurrencySymbol + " " + grouped
}

// FormatInt formats an integer with digit grouping.
func (o FormatOptions) FormatInt(n int) string {
	return o.printer().Sprintf("%d", n)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	return DefaultFormat().FormatInt(n)
}

// LabelForDimension turns a CamelCase column key into spaced words:
// "YearsAtCompany" → "Years At Company".
func LabelForDimension(key string) string {
	if key == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(key)
	for i, r := range runes {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if (prev >= 'a' && prev <= 'z') || (prev >= 'A' && prev <= 'Z' && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(string(runes[0])) + b.String()[len(string(runes[0])):]
}

// LabelForAggregation returns the axis label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case "count":
		return "Count"
	case "rate":
		return "Rate (%)"
	default:
		return "Value"
	}
}
