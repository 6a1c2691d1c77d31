package views

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type number interface {
	constraints.Integer | constraints.Float
}

// AllZero is the "no data" predicate. It holds for an empty slice, so a
// selection with no rows renders the placeholder rather than failing.
func AllZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

// extent returns the smallest and largest element; zeroes on empty input.
func extent[T number](values []T) (lo, hi T) {
	if len(values) == 0 {
		return lo, hi
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func maxOf[T number](values []T) T {
	_, hi := extent(values)
	return hi
}

// padded widens a degenerate domain so the rendering libraries get a
// non-zero range. The scene keeps the real domain.
func padded(d Domain) Domain {
	if d.Max > d.Min {
		return d
	}
	return Domain{Min: d.Min - 1, Max: d.Max + 1}
}

// tooltipPrinter formats tooltip numbers with two decimals and English
// digit grouping.
type tooltipPrinter struct {
	p *message.Printer
}

func newTooltipPrinter() tooltipPrinter {
	return tooltipPrinter{p: message.NewPrinter(language.English)}
}

func (t tooltipPrinter) value(v float64) string {
	return t.p.Sprintf("%.2f", v)
}

func (t tooltipPrinter) named(name string, v float64) string {
	return t.p.Sprintf("%s: %.2f", name, v)
}

func (t tooltipPrinter) share(name string, v, total float64) string {
	if total == 0 {
		return t.named(name, v)
	}
	return t.p.Sprintf("%s: %.2f (%.1f%%)", name, v, v/total*100)
}
