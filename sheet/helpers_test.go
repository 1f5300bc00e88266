package sheet

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ByLCY/winesheet/imageloader"
	"github.com/ByLCY/winesheet/layout"
	"github.com/ByLCY/winesheet/product"
)

// stubRenderer 每个字符固定 2mm，Render 只返回占位字节。
type stubRenderer struct {
	err     error
	panicOn bool
	calls   int
}

func (*stubRenderer) TextWidth(s string, _ layout.Font) float64 {
	return float64(utf8.RuneCountInString(s)) * 2
}

func (r *stubRenderer) Render(res *layout.Result) ([]byte, error) {
	r.calls++
	if r.panicOn {
		panic("boom")
	}
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub"), nil
}

type staticImages struct {
	img *imageloader.Image
	err error
}

func (s staticImages) Load(ctx context.Context, _ string) (*imageloader.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.img, nil
}

var noImage = staticImages{err: imageloader.ErrImageUnavailable}

var fixedClock = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }

func jpegImage(t *testing.T, w, h int) *imageloader.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 110, G: 20, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return &imageloader.Image{Data: buf.Bytes(), Format: "JPEG", Width: w, Height: h}
}

func minimalProduct() *product.Product {
	return &product.Product{
		Title:       "Rioja Reserva",
		Price:       decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
		ProductCode: "AB123",
	}
}

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	base := []Option{WithClock(fixedClock), WithImageLoader(noImage)}
	g, err := NewGenerator(&stubRenderer{}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func layoutOf(t *testing.T, g *Generator, p *product.Product) *layout.Result {
	t.Helper()
	res, err := g.Layout(context.Background(), p)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return res
}

func findText(page layout.Page, content string) (layout.TextRun, bool) {
	for _, tr := range page.Texts {
		if tr.Content == content {
			return tr, true
		}
	}
	return layout.TextRun{}, false
}

func countText(page layout.Page, content string) int {
	n := 0
	for _, tr := range page.Texts {
		if tr.Content == content {
			n++
		}
	}
	return n
}

func contents(page layout.Page) []string {
	out := make([]string, len(page.Texts))
	for i, tr := range page.Texts {
		out[i] = tr.Content
	}
	return out
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
