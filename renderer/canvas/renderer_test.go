package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ByLCY/winesheet/layout"
	"github.com/ByLCY/winesheet/renderer"
)

func TestTextWidthScalesWithSize(t *testing.T) {
	r := NewRenderer()
	small := r.TextWidth("Tuotetiedot", layout.Font{Size: 9})
	large := r.TextWidth("Tuotetiedot", layout.Font{Size: 18})
	if small <= 0 {
		t.Fatalf("invalid width: %g", small)
	}
	if large <= small {
		t.Fatalf("expected larger font to measure wider: %g vs %g", large, small)
	}
}

// TestWrapWithRealFont 验证真实字体度量下折行宽度不超过限制（mm）。
func TestWrapWithRealFont(t *testing.T) {
	r := NewRenderer()
	font := layout.Font{Size: 9}
	limit := 40.0
	lines := layout.WrapText(r, "Kypsää kirsikkaa, luumua ja hienostunutta tammea pitkässä jälkimaussa", font, limit)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %q", lines)
	}
	for i, ln := range lines {
		if w := r.TextWidth(ln, font); w-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, w, limit)
		}
	}
}

func TestRenderProducesValidPDF(t *testing.T) {
	r := NewRenderer()
	rec := layout.NewRecorder(r, 210, 297, layout.Margin{Top: 20, Right: 20, Bottom: 20, Left: 20})
	rec.SetMeta(layout.DocumentMeta{Title: "Test", Author: "Wine Store"})

	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	rec.RegisterImage(layout.ImageResource{Name: "hero", Format: "PNG", PixelWidth: 2, PixelHeight: 2, Data: buf.Bytes()})
	rec.Image("hero", 20, 40, 10, 10)
	rec.SetFont("B", 11)
	rec.Text(23, 25, "Makuprofiili")
	rec.SetFillColor(layout.Color{R: 255, G: 250, B: 245})
	rec.RoundedRect(20, 30, 170, 12, 1, "F")
	rec.SetDrawColor(layout.Color{R: 240, G: 240, B: 240})
	rec.Rect(20, 20, 170, 30, "D")
	rec.Line(20, 60, 190, 60)
	rec.AddPage()
	rec.Text(20, 30, "Sivu 2")

	res, err := rec.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	pdf, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	pages, err := renderer.Validate(pdf)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if pages != 2 {
		t.Fatalf("expected 2 pages, got %d", pages)
	}
}

func TestRenderRejectsBrokenImage(t *testing.T) {
	r := NewRenderer()
	res := &layout.Result{
		Pages:  []layout.Page{{Width: 210, Height: 297}},
		Images: map[string]layout.ImageResource{"x": {Name: "x", Data: []byte("not an image")}},
	}
	if _, err := r.Render(res); err == nil {
		t.Fatalf("expected decode error")
	}
}
