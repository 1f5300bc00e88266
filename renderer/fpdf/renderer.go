package fpdfrenderer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/winesheet/fonts"
	"github.com/ByLCY/winesheet/layout"
	"github.com/ByLCY/winesheet/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer draws layout results via codeberg.org/go-pdf/fpdf. It writes real
// link annotations and honours DocumentMeta.CreatedAt so output is reproducible.
type Renderer struct {
	compress bool
	fontData func(style string) ([]byte, error)

	measureMu  sync.Mutex
	measure    *fpdf.Fpdf
	measureErr error
}

var (
	_ renderer.Renderer  = (*Renderer)(nil)
	_ layout.Typesetter  = (*Renderer)(nil)
	_ layout.FontChecker = (*Renderer)(nil)
)

// Options configures the fpdf renderer.
type Options struct {
	// DisableCompression keeps content streams readable, handy when debugging.
	DisableCompression bool
	// FontData returns the TTF for a style; defaults to fonts.Load.
	FontData func(style string) ([]byte, error)
}

// NewRenderer creates an fpdf renderer with compressed streams.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates an fpdf renderer.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{compress: !opts.DisableCompression, fontData: opts.FontData}
	if r.fontData == nil {
		r.fontData = fonts.Load
	}
	return r
}

// Ready 加载测量用字体，失败时返回（并缓存）字体错误。
func (r *Renderer) Ready() error {
	r.measureMu.Lock()
	defer r.measureMu.Unlock()
	return r.loadMeasureLocked()
}

func (r *Renderer) loadMeasureLocked() error {
	if r.measure != nil || r.measureErr != nil {
		return r.measureErr
	}
	doc, err := r.newDocument(210, 297)
	if err != nil {
		r.measureErr = err
		return err
	}
	r.measure = doc
	return nil
}

// TextWidth 实现 layout.Typesetter，使用与绘制相同的 UTF-8 字体度量（mm）。
// 字体不可用时返回 0，错误由 Ready 和 Render 报告。
func (r *Renderer) TextWidth(s string, font layout.Font) float64 {
	if s == "" {
		return 0
	}
	r.measureMu.Lock()
	defer r.measureMu.Unlock()
	if r.loadMeasureLocked() != nil {
		return 0
	}
	r.measure.SetFont(fonts.Family, font.Style, font.Size)
	return r.measure.GetStringWidth(s)
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	if err := r.Ready(); err != nil {
		return nil, err
	}

	first := result.Pages[0]
	doc, err := r.newDocument(first.Width, first.Height)
	if err != nil {
		return nil, err
	}
	doc.SetCompression(r.compress)
	applyMeta(doc, result.Meta)
	if err := registerImages(doc, result.Images); err != nil {
		return nil, err
	}

	for _, page := range result.Pages {
		doc.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		drawRects(doc, page.Rects)
		drawLines(doc, page.Lines)
		drawTexts(doc, page.Texts)
		if err := drawImages(doc, page.Images, result.Images); err != nil {
			return nil, err
		}
		if doc.Err() {
			return nil, fmt.Errorf("绘制页面失败: %w", doc.Error())
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) newDocument(width, height float64) (*fpdf.Fpdf, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	for _, style := range fonts.Styles {
		data, err := r.fontData(style)
		if err != nil {
			return nil, fmt.Errorf("加载内置字体 %q 失败: %w", style, err)
		}
		doc.AddUTF8FontFromBytes(fonts.Family, style, data)
	}
	if doc.Err() {
		return nil, fmt.Errorf("加载内置字体失败: %w", doc.Error())
	}
	return doc, nil
}

func applyMeta(doc *fpdf.Fpdf, meta layout.DocumentMeta) {
	doc.SetTitle(meta.Title, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetCreator(meta.Creator, true)
	doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	if !meta.CreatedAt.IsZero() {
		doc.SetCreationDate(meta.CreatedAt)
		doc.SetModificationDate(meta.CreatedAt)
	}
	doc.SetCatalogSort(true)
}

func registerImages(doc *fpdf.Fpdf, images map[string]layout.ImageResource) error {
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		img := images[name]
		doc.RegisterImageOptionsReader(name, imageOptions(img), bytes.NewReader(img.Data))
		if doc.Err() {
			return fmt.Errorf("注册图片 %s 失败: %w", name, doc.Error())
		}
	}
	return nil
}

func imageOptions(img layout.ImageResource) fpdf.ImageOptions {
	return fpdf.ImageOptions{ImageType: strings.ToUpper(img.Format), ReadDpi: false}
}

// drawRects 绘制矩形，圆角矩形四个角都取同一半径。
func drawRects(doc *fpdf.Fpdf, rects []layout.Rect) {
	for _, rc := range rects {
		style := ""
		if rc.FillColor != nil {
			doc.SetFillColor(rc.FillColor.R, rc.FillColor.G, rc.FillColor.B)
			style += "F"
		}
		if rc.StrokeColor != nil {
			w := rc.StrokeWidth
			if w <= 0 {
				w = defaultStrokeWidth
			}
			doc.SetDrawColor(rc.StrokeColor.R, rc.StrokeColor.G, rc.StrokeColor.B)
			doc.SetLineWidth(w)
			style += "D"
		}
		if style == "" {
			continue
		}
		if rc.Radius > 0 {
			doc.RoundedRect(rc.X, rc.Y, rc.Width, rc.Height, rc.Radius, "1234", style)
			continue
		}
		doc.Rect(rc.X, rc.Y, rc.Width, rc.Height, style)
	}
}

func drawLines(doc *fpdf.Fpdf, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		doc.SetDrawColor(ln.Color.R, ln.Color.G, ln.Color.B)
		doc.SetLineWidth(w)
		doc.Line(ln.X1, ln.Y1, ln.X2, ln.Y2)
	}
}

func drawTexts(doc *fpdf.Fpdf, texts []layout.TextRun) {
	for _, tr := range texts {
		doc.SetFont(fonts.Family, tr.Font.Style, tr.Font.Size)
		doc.SetTextColor(tr.Color.R, tr.Color.G, tr.Color.B)
		doc.Text(tr.X, tr.Y, tr.Content)
		if tr.Link != "" {
			// 链接区域从基线向上覆盖一个字号高度
			h := tr.Font.Size * layout.PtToMm
			doc.LinkString(tr.X, tr.Y-h, tr.Width, h, tr.Link)
		}
	}
}

func drawImages(doc *fpdf.Fpdf, boxes []layout.ImageBox, images map[string]layout.ImageResource) error {
	for _, box := range boxes {
		img, ok := images[box.Name]
		if !ok {
			return fmt.Errorf("找不到图片资源 %s", box.Name)
		}
		doc.ImageOptions(box.Name, box.X, box.Y, box.Width, box.Height, false, imageOptions(img), 0, "")
	}
	return nil
}
