// Package scorecard renders an assessment as a PNG image.
package scorecard

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

// Options controls the rendered image.
type Options struct {
	Width    int
	Height   int
	Title    string  // defaults to "ESG Scorecard"
	FontPath string  // TrueType font; empty uses the built-in bitmap face
	FontSize float64 // points, TrueType only
}

var levelColors = map[string]color.NRGBA{
	"A": {R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
	"B": {R: 0x1e, G: 0x88, B: 0xe5, A: 0xff},
	"C": {R: 0xf9, G: 0xa8, B: 0x25, A: 0xff},
	"D": {R: 0xc6, G: 0x28, B: 0x28, A: 0xff},
}

var (
	background = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	ink        = color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
	track      = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 640
	}
	if o.Height <= 0 {
		o.Height = 360
	}
	if o.Title == "" {
		o.Title = "ESG Scorecard"
	}
	if o.FontSize <= 0 {
		o.FontSize = 16
	}
	return o
}

func (o Options) face() (font.Face, error) {
	if o.FontPath == "" {
		return basicfont.Face7x13, nil
	}
	f, err := gg.LoadFontFace(o.FontPath, o.FontSize)
	if err != nil {
		return nil, fmt.Errorf("loading font %s: %w", o.FontPath, err)
	}
	return f, nil
}

// Render draws the grade badge, one bar per category against its cap, and
// the total.
func Render(a *schema.Assessment, opts Options) ([]byte, error) {
	if a == nil {
		return nil, errors.New("no assessment to render")
	}
	opts = opts.withDefaults()
	face, err := opts.face()
	if err != nil {
		return nil, err
	}

	w, h := float64(opts.Width), float64(opts.Height)
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(background)
	dc.Clear()
	dc.SetFontFace(face)

	margin := w * 0.06
	dc.SetColor(ink)
	dc.DrawStringAnchored(opts.Title, margin, margin, 0, 1)
	dc.DrawStringAnchored(fmt.Sprintf("Total %.0f / 100   Rubric %s", a.Total, a.RubricVersion), margin, h-margin, 0, 0)

	// badge
	radius := h * 0.2
	cx, cy := w-margin-radius, h/2
	badge, ok := levelColors[a.Level]
	if !ok {
		badge = levelColors["D"]
	}
	dc.SetColor(badge)
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()
	dc.SetColor(color.White)
	dc.Push()
	dc.ScaleAbout(3, 3, cx, cy)
	dc.DrawStringAnchored(a.Level, cx, cy, 0.5, 0.35)
	dc.Pop()

	// bars
	barLeft := margin + 130
	barWidth := cx - radius - margin - barLeft
	barHeight := h * 0.08
	scores := map[rubric.Category]int{rubric.Environment: a.E, rubric.Social: a.S, rubric.Governance: a.G}
	for i, c := range rubric.Categories {
		y := h*0.3 + float64(i)*barHeight*2
		got, limit := scores[c], c.Cap()

		dc.SetColor(ink)
		dc.DrawStringAnchored(fmt.Sprintf("%s %2d/%d", label(c), got, limit), margin, y+barHeight/2, 0, 0.35)

		dc.SetColor(track)
		dc.DrawRectangle(barLeft, y, barWidth, barHeight)
		dc.Fill()

		frac := float64(got) / float64(limit)
		if frac > 1 {
			frac = 1
		}
		if frac > 0 {
			dc.SetColor(badge)
			dc.DrawRectangle(barLeft, y, barWidth*frac, barHeight)
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// label is an ASCII category name; the bitmap face has no CJK glyphs.
func label(c rubric.Category) string {
	switch c {
	case rubric.Environment:
		return "Environment"
	case rubric.Social:
		return "Social"
	default:
		return "Governance"
	}
}
