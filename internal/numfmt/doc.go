// Package numfmt formats numbers, dates, and monetary amounts the way the
// Portuguese document templates expect: "1.234,56 €" figures, spelled-out
// totals ("mil, duzentos e trinta e quatro euros e cinquenta centavos"), and
// "agosto de 2026" dates. ProcessBindings applies these derivations to a
// binding set before rendering.
package numfmt
