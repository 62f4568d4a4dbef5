package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"docforge/internal/services"
)

// printer localizes numeric output for European Portuguese: thousands are
// separated by "." and decimals by ",".
var printer = message.NewPrinter(language.EuropeanPortuguese)

// test seam
var now = time.Now

// EuroSymbol is the currency symbol appended to formatted monetary values.
const EuroSymbol = "€"

// FormatNumber renders a number in Portuguese style, e.g. "1.234,56 €".
// With showDecimals false the value is rounded to an integer first. An empty
// currency symbol omits the suffix.
func FormatNumber(value float64, showDecimals bool, currencySymbol string) string {
	var result string
	if showDecimals {
		result = printer.Sprintf("%.2f", value)
	} else {
		result = printer.Sprintf("%d", int64(math.Round(value)))
	}
	if currencySymbol != "" {
		result += " " + currencySymbol
	}
	return result
}

// ToNumber converts a binding value to a float rounded half-up to two decimal
// places.
func ToNumber(value any) (float64, error) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", services.ErrConfiguration, v)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%w: value %v is not numeric", services.ErrConfiguration, value)
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, fmt.Errorf("%w: value %v is not a finite number", services.ErrConfiguration, value)
	}
	return round2(n), nil
}

// TotalCost multiplies quantity by unit cost, rounded half-up to two decimal
// places.
func TotalCost(qty, costPerUnit float64) float64 {
	return round2(qty * costPerUnit)
}

func round2(n float64) float64 {
	return math.Round(n*100) / 100
}

var ptMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Month returns the Portuguese name of a month.
func Month(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return ptMonths[m-1]
}

// FormatDate renders a date as "agosto de 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s de %d", Month(t.Month()), t.Year())
}
