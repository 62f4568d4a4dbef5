package numfmt

import (
	"strconv"
	"strings"
)

var unitWords = [...]string{
	"zero", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito",
	"nove", "dez", "onze", "doze", "treze", "catorze", "quinze", "dezasseis",
	"dezassete", "dezoito", "dezanove",
}

var tenWords = [...]string{
	"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta",
	"oitenta", "noventa",
}

var hundredWords = [...]string{
	"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos",
	"seiscentos", "setecentos", "oitocentos", "novecentos",
}

// maxSpellable bounds what intWords can spell out. Larger values degrade to
// the plain numeric string instead of being spelled.
const maxSpellable = 999_999_999

// NumberToWords spells out a number in European Portuguese. With a currency
// name the integer part carries the (pluralized) currency and any cents are
// appended as centavos; without one, a non-zero decimal part follows after a
// comma. Negatives are prefixed with "menos".
func NumberToWords(value float64, currency string) string {
	if value < 0 {
		return "menos " + NumberToWords(-value, currency)
	}

	intPart, decPart := splitParts(value)
	if intPart > maxSpellable {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}

	words := intWords(intPart)

	// Readability fix carried over from the document texts this feeds: a
	// thousands group followed by more digits gets a comma after "mil".
	if intPart > 1000 && intPart%1000 != 0 && strings.Contains(words, "mil") {
		if strings.Contains(words, " mil ") {
			words = strings.Replace(words, " mil ", " mil, ", 1)
		} else if strings.HasPrefix(words, "mil ") {
			words = strings.Replace(words, "mil ", "mil, ", 1)
		}
	}

	if currency == "" {
		if decPart > 0 {
			return words + ", " + intWords(int64(decPart))
		}
		return words
	}

	result := words + " " + currency
	if intPart != 1 {
		result += "s"
	}
	if decPart > 0 {
		centWords := intWords(int64(decPart))
		if decPart == 1 {
			result += " e " + centWords + " centavo"
		} else {
			result += " e " + centWords + " centavos"
		}
	}
	return result
}

// splitParts separates a value into integer and two-digit cent parts using
// decimal string formatting so binary float noise cannot shift a cent.
func splitParts(value float64) (int64, int) {
	formatted := strconv.FormatFloat(value, 'f', 2, 64)
	dot := strings.IndexByte(formatted, '.')
	intPart, _ := strconv.ParseInt(formatted[:dot], 10, 64)
	decPart, _ := strconv.Atoi(formatted[dot+1:])
	return intPart, decPart
}

// intWords spells out integers up to the hundreds of millions.
func intWords(n int64) string {
	if n == 0 {
		return "zero"
	}

	type group struct {
		words string
		value int64
	}
	var groups []group

	if millions := n / 1_000_000; millions > 0 {
		if millions == 1 {
			groups = append(groups, group{"um milhão", millions * 1_000_000})
		} else {
			groups = append(groups, group{words999(int(millions)) + " milhões", millions * 1_000_000})
		}
	}
	if thousands := (n % 1_000_000) / 1000; thousands > 0 {
		if thousands == 1 {
			groups = append(groups, group{"mil", thousands * 1000})
		} else {
			groups = append(groups, group{words999(int(thousands)) + " mil", thousands * 1000})
		}
	}
	if rest := n % 1000; rest > 0 {
		groups = append(groups, group{words999(int(rest)), rest})
	}

	out := groups[0].words
	for _, g := range groups[1:] {
		// "e" joins a following group that reads as a round or small number
		// ("mil e cem", "dois mil e cinquenta"); otherwise groups abut.
		if g.value < 100 || g.value%100 == 0 {
			out += " e " + g.words
		} else {
			out += " " + g.words
		}
	}
	return out
}

// words999 spells out 1..999.
func words999(n int) string {
	if n == 100 {
		return "cem"
	}

	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundredWords[h])
	}
	rem := n % 100
	switch {
	case rem == 0:
	case rem < 20:
		parts = append(parts, unitWords[rem])
	default:
		parts = append(parts, tenWords[rem/10])
		if u := rem % 10; u > 0 {
			parts = append(parts, unitWords[u])
		}
	}
	return strings.Join(parts, " e ")
}
