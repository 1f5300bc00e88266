package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/winesheet/fonts"
	"github.com/ByLCY/winesheet/layout"
	"github.com/ByLCY/winesheet/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas.
// Link targets on text runs are not written; use the fpdf renderer when the
// footer link has to be clickable.
type Renderer struct {
	fontMu sync.Mutex
	family *canvas.FontFamily
}

var (
	_ renderer.Renderer  = (*Renderer)(nil)
	_ layout.Typesetter  = (*Renderer)(nil)
	_ layout.FontChecker = (*Renderer)(nil)
)

// NewRenderer creates a canvas-based renderer using the built-in fonts.
func NewRenderer() *Renderer { return &Renderer{} }

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	images, err := decodeImages(result.Images)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page, images); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// Ready 加载内置字体族，失败时返回错误。
func (r *Renderer) Ready() error {
	_, err := r.ensureFontFamily()
	return err
}

// TextWidth 实现 layout.Typesetter 接口，返回 mm。
func (r *Renderer) TextWidth(s string, font layout.Font) float64 {
	if s == "" {
		return 0
	}
	face, err := r.fontFace(font, layout.Color{})
	if err != nil {
		return 0
	}
	return face.TextWidth(s)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, images map[string]image.Image) error {
	// 背景形状在文字之前绘制
	r.drawRects(ctx, page.Rects)
	r.drawLines(ctx, page.Lines)
	for _, tr := range page.Texts {
		if err := r.drawText(ctx, tr); err != nil {
			return err
		}
	}
	return r.drawImages(ctx, page.Images, images)
}

func (r *Renderer) drawText(ctx *canvas.Context, tr layout.TextRun) error {
	face, err := r.fontFace(tr.Font, tr.Color)
	if err != nil {
		return err
	}
	// TextRun.Y 已经是基线
	ctx.DrawText(tr.X, tr.Y, canvas.NewTextLine(face, tr.Content, canvas.Left))
	return nil
}

func decodeImages(resources map[string]layout.ImageResource) (map[string]image.Image, error) {
	out := make(map[string]image.Image, len(resources))
	for name, res := range resources {
		img, _, err := image.Decode(bytes.NewReader(res.Data))
		if err != nil {
			return nil, fmt.Errorf("解码图片 %s 失败: %w", name, err)
		}
		out[name] = img
	}
	return out, nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, boxes []layout.ImageBox, images map[string]image.Image) error {
	for _, box := range boxes {
		img, ok := images[box.Name]
		if !ok {
			return fmt.Errorf("找不到图片资源 %s", box.Name)
		}
		width := box.Width
		if width <= 0 {
			width = float64(img.Bounds().Dx()) / 4.0
		}
		dpmm := float64(img.Bounds().Dx()) / width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(box.X, box.Y, img, canvas.DPMM(dpmm))
	}
	return nil
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawRects 绘制矩形，FillColor/StrokeColor 为空时对应部分透明
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		}
		if rc.StrokeColor != nil {
			w := rc.StrokeWidth
			if w <= 0 {
				w = defaultStrokeWidth
			}
			ctx.SetStrokeColor(colorFromLayout(*rc.StrokeColor))
			ctx.SetStrokeWidth(w)
		} else {
			ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
			ctx.SetStrokeWidth(0)
		}
		shape := canvas.Rectangle(rc.Width, rc.Height)
		if rc.Radius > 0 {
			shape = canvas.RoundedRectangle(rc.Width, rc.Height, rc.Radius)
		}
		ctx.DrawPath(rc.X, rc.Y, shape)
	}
}

func (r *Renderer) fontFace(font layout.Font, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(font.Size, colorFromLayout(col), parseFontStyle(font.Style), canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return r.family, nil
	}
	family := canvas.NewFontFamily(fonts.Family)
	for _, style := range fonts.Styles {
		data, err := fonts.Load(style)
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, parseFontStyle(style)); err != nil {
			return nil, fmt.Errorf("加载内置字体 %q 失败: %w", style, err)
		}
	}
	r.family = family
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	result := canvas.FontRegular
	if strings.Contains(style, "B") {
		result = canvas.FontBold
	}
	if strings.Contains(style, "I") {
		result |= canvas.FontItalic
	}
	return result
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
