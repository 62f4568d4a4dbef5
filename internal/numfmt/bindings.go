package numfmt

import (
	"strings"

	"docforge/internal/token"
)

// ProcessBindings derives the computed variables a cost-sheet template
// expects from the raw caller bindings. The input map is not modified.
//
// Rules:
//   - A "date" binding with the value "today" becomes the current month and
//     year in Portuguese ("agosto de 2026").
//   - When both "qty" and "cost_per_unit" are present, "total_cost" and
//     "total_cost_words" are derived and all three monetary values are
//     formatted in Portuguese number style.
//   - When both "accessibility_width" and "accessibility_height" are present,
//     they are normalized to numbers.
func ProcessBindings(bindings token.Bindings) (token.Bindings, error) {
	out := make(token.Bindings, len(bindings)+2)
	for k, v := range bindings {
		out[k] = v
	}

	if raw, ok := out["date"]; ok {
		if s, ok := raw.(string); ok && strings.EqualFold(strings.TrimSpace(s), "today") {
			out["date"] = FormatDate(now())
		}
	}

	rawQty, hasQty := out["qty"]
	rawCost, hasCost := out["cost_per_unit"]
	if hasQty && hasCost {
		qty, err := ToNumber(rawQty)
		if err != nil {
			return nil, err
		}
		costPerUnit, err := ToNumber(rawCost)
		if err != nil {
			return nil, err
		}

		total := TotalCost(qty, costPerUnit)
		out["total_cost"] = FormatNumber(total, true, EuroSymbol)
		out["total_cost_words"] = NumberToWords(total, "euro")
		out["qty"] = FormatNumber(qty, true, "")
		out["cost_per_unit"] = FormatNumber(costPerUnit, true, EuroSymbol)
	}

	rawWidth, hasWidth := out["accessibility_width"]
	rawHeight, hasHeight := out["accessibility_height"]
	if hasWidth && hasHeight {
		width, err := ToNumber(rawWidth)
		if err != nil {
			return nil, err
		}
		height, err := ToNumber(rawHeight)
		if err != nil {
			return nil, err
		}
		out["accessibility_width"] = width
		out["accessibility_height"] = height
	}

	return out, nil
}
