package views

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Container names, one per adapter.
const (
	ContainerButterfly = "butterfly"
	ContainerLine      = "line"
	ContainerScatter   = "scatter"
	ContainerDonut     = "donut"
)

// Size is the pixel size handed to the SVG renderers.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

var DefaultSize = Size{Width: 600, Height: 400}

// Palette used across the adapters.
const (
	colorSteelBlue = "#4682b4"
	colorOrange    = "#ffa500"
	colorMale      = "#1f77b4"
	colorFemale    = "#e377c2"
	colorUrban     = "#1f77b4"
	colorRural     = "#2ca02c"
)

// base is what every adapter shares: its one container and render size.
type base struct {
	surface   *Surface
	container string
	title     string
	size      Size
}

func newBase(s *Surface, container, title string, size Size) base {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	return base{surface: s, container: container, title: title, size: size}
}

func (b *base) Container() string { return b.container }

func (b *base) scene() Scene {
	return Scene{Container: b.container, Title: b.title}
}

// empty mounts the "no data" placeholder.
func (b *base) empty() error {
	sc := b.scene()
	sc.State = StateEmpty
	sc.Message = NoDataMessage
	return b.finish(sc, func() ([]byte, error) { return placeholderSVG(b.size, b.title) })
}

// finish renders the SVG off-surface, then swaps the finished scene in. A
// renderer failure still mounts the declarative scene, without SVG.
func (b *base) finish(sc Scene, draw func() ([]byte, error)) error {
	svg, err := draw()
	if err != nil {
		sc.SVG = nil
		b.surface.Mount(sc)
		return fmt.Errorf("%s: render svg: %w", b.container, err)
	}
	sc.SVG = svg
	b.surface.Mount(sc)
	return nil
}

func placeholderSVG(size Size, title string) ([]byte, error) {
	r, err := chart.SVG(size.Width, size.Height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetFont(font)
	r.SetFontColor(drawing.ColorBlack)

	if title != "" {
		r.SetFontSize(14)
		tb := r.MeasureText(title)
		r.Text(title, (size.Width-tb.Width())/2, 20+tb.Height())
	}
	r.SetFontSize(12)
	mb := r.MeasureText(NoDataMessage)
	r.Text(NoDataMessage, (size.Width-mb.Width())/2, size.Height/2)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
