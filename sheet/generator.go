// Package sheet lays out and renders the one-page (sometimes two) product
// sheet for a wine.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ByLCY/winesheet/imageloader"
	"github.com/ByLCY/winesheet/layout"
	"github.com/ByLCY/winesheet/product"
	"github.com/ByLCY/winesheet/renderer"
	"github.com/ByLCY/winesheet/theme"
)

// ErrGenerationFailed wraps every failure that prevents a document from
// being produced. No bytes are returned alongside it.
var ErrGenerationFailed = errors.New("product sheet generation failed")

const ContentType = "application/pdf"

// ImageSource loads the product image. *imageloader.Loader implements it.
type ImageSource interface {
	Load(ctx context.Context, src string) (*imageloader.Image, error)
}

// Document is a rendered product sheet.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
}

type Generator struct {
	renderer   renderer.Renderer
	typesetter layout.Typesetter
	images     ImageSource
	theme      *theme.Theme
	labels     Labels
	geo        Geometry
	now        func() time.Time
	validate   bool
	logger     *zap.Logger
}

type Option func(*Generator)

func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithTheme(th *theme.Theme) Option {
	return func(g *Generator) {
		if th != nil {
			g.theme = th
		}
	}
}

func WithLabels(l Labels) Option {
	return func(g *Generator) { g.labels = l }
}

// WithClock fixes the time used for the footer stamp and document dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithValidation checks every rendered PDF with pdfcpu before returning it.
func WithValidation(enabled bool) Option {
	return func(g *Generator) { g.validate = enabled }
}

func WithImageLoader(src ImageSource) Option {
	return func(g *Generator) {
		if src != nil {
			g.images = src
		}
	}
}

func WithGeometry(geo Geometry) Option {
	return func(g *Generator) { g.geo = geo }
}

// NewGenerator needs a renderer that can also measure text.
func NewGenerator(r renderer.Renderer, opts ...Option) (*Generator, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	ts, ok := r.(layout.Typesetter)
	if !ok {
		return nil, fmt.Errorf("renderer %T cannot measure text", r)
	}
	g := &Generator{
		renderer:   r,
		typesetter: ts,
		theme:      theme.Default(),
		labels:     Finnish(),
		geo:        A4(),
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.labels.Validate(); err != nil {
		return nil, err
	}
	if g.images == nil {
		g.images = imageloader.New(imageloader.WithLogger(g.logger))
	}
	return g, nil
}

// Labels returns the labels the generator draws with.
func (g *Generator) Labels() Labels { return g.labels }

// Generate lays out, renders and optionally validates the sheet for p.
func (g *Generator) Generate(ctx context.Context, p *product.Product) (*Document, error) {
	doc, _, err := g.GenerateWithLayout(ctx, p)
	return doc, err
}

// GenerateWithLayout is Generate that also returns the display list the
// document was rendered from.
func (g *Generator) GenerateWithLayout(ctx context.Context, p *product.Product) (*Document, *layout.Result, error) {
	start := g.now()
	res, err := g.Layout(ctx, p)
	if err != nil {
		return nil, nil, err
	}

	var data []byte
	err = g.guard(p, "render", func() error {
		var err error
		data, err = g.renderer.Render(res)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	pages := len(res.Pages)
	if g.validate {
		n, err := renderer.Validate(data)
		if err != nil {
			return nil, nil, g.fail(p, "validate", err)
		}
		pages = n
	}

	doc := &Document{
		Filename:    Filename(p.Title, p.ProductCode),
		ContentType: ContentType,
		Data:        data,
		Pages:       pages,
	}
	g.logger.Info("product sheet generated",
		zap.String("product_code", p.ProductCode),
		zap.String("filename", doc.Filename),
		zap.Int("pages", pages),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", g.now().Sub(start)),
	)
	return doc, res, nil
}

// Layout computes the display list without serialising it.
func (g *Generator) Layout(ctx context.Context, p *product.Product) (*layout.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, g.fail(p, "validate product", err)
	}
	if fc, ok := g.typesetter.(layout.FontChecker); ok {
		if err := fc.Ready(); err != nil {
			return nil, g.fail(p, "load fonts", err)
		}
	}

	img := g.loadImage(ctx, p)
	if err := ctx.Err(); err != nil {
		return nil, g.fail(p, "load image", err)
	}

	var res *layout.Result
	err := g.guard(p, "layout", func() error {
		var err error
		res, err = g.compose(p, img)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) compose(p *product.Product, img *imageloader.Image) (*layout.Result, error) {
	geo := g.geo
	now := g.now()

	rec := layout.NewRecorder(g.typesetter, geo.PageWidth, geo.PageHeight, geo.layoutMargin())
	rec.SetMeta(layout.DocumentMeta{
		Title:     p.Title,
		Subject:   g.labels.Subject(p.Title),
		Author:    g.theme.Author,
		Creator:   g.theme.Creator,
		Keywords:  []string{lo.Ternary(strings.TrimSpace(p.TagLine) != "", p.TagLine, p.Title)},
		CreatedAt: now,
	})

	pager := NewPaginator(rec, geo, g.logger)
	dc := &drawContext{
		c:      rec,
		geo:    geo,
		th:     g.theme,
		labels: g.labels,
		p:      p,
		image:  img,
		pager:  pager,
	}

	y := geo.Top()
	for _, section := range sectionOrder {
		y = section.draw(dc, y)
	}
	drawFooter(dc, g.labels.Generated(now))

	if breaks := pager.Breaks(); len(breaks) > 0 {
		g.logger.Debug("layout paginated",
			zap.String("product_code", p.ProductCode),
			zap.Strings("sections", lo.Map(breaks, func(b Break, _ int) string { return b.Section })),
		)
	}
	return rec.Result()
}

// loadImage 失败时返回 nil，版面会为图片预留固定高度。
func (g *Generator) loadImage(ctx context.Context, p *product.Product) *imageloader.Image {
	img, err := g.images.Load(ctx, p.LargeImage)
	if err != nil {
		if ctx.Err() == nil {
			g.logger.Warn("product image unavailable, reserving placeholder space",
				zap.String("product_code", p.ProductCode),
				zap.String("src", p.LargeImage),
				zap.Error(err),
			)
		}
		return nil
	}
	return img
}

// guard 把 fn 中的错误和 panic 都转换成 ErrGenerationFailed。
func (g *Generator) guard(p *product.Product, stage string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = g.fail(p, stage, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		return g.fail(p, stage, err)
	}
	return nil
}

func (g *Generator) fail(p *product.Product, stage string, err error) error {
	code := ""
	if p != nil {
		code = p.ProductCode
	}
	g.logger.Error("product sheet generation failed",
		zap.String("product_code", code),
		zap.String("stage", stage),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %s: %w", ErrGenerationFailed, stage, err)
}
