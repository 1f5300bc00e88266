package layout

import "fmt"

// Recorder 实现 Canvas：不直接输出 PDF，而是把每页的绘制指令收集成 Result，
// 再交给任意 renderer.Renderer 序列化。测量委托给 Typesetter。
type Recorder struct {
	typesetter Typesetter
	collector  *pageCollector
	images     map[string]ImageResource
	meta       DocumentMeta

	font      Font
	textColor Color
	fillColor Color
	drawColor Color
	lineWidth float64
}

var _ Canvas = (*Recorder)(nil)

// NewRecorder 创建一个已含第一页的记录画布。
func NewRecorder(ts Typesetter, width, height float64, margin Margin) *Recorder {
	return &Recorder{
		typesetter: ts,
		collector:  newPageCollector(width, height, margin),
		images:     map[string]ImageResource{},
		font:       Font{Size: 12},
		lineWidth:  0.2,
	}
}

type pageAccumulator struct {
	rects  []Rect
	lines  []Line
	texts  []TextRun
	images []ImageBox
}

type pageCollector struct {
	width   float64
	height  float64
	margin  Margin
	accs    []*pageAccumulator
	current int
}

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	pc := &pageCollector{
		width:  width,
		height: height,
		margin: margin,
	}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:  pc.width,
			Height: pc.height,
			Margin: pc.margin,
			Rects:  acc.rects,
			Lines:  acc.lines,
			Texts:  acc.texts,
			Images: acc.images,
		}
	}
	return out
}

func (r *Recorder) PageSize() (float64, float64) { return r.collector.width, r.collector.height }

func (r *Recorder) PageCount() int { return len(r.collector.accs) }

func (r *Recorder) AddPage() { r.collector.newPage() }

func (r *Recorder) SetFont(style string, size float64) { r.font = Font{Style: style, Size: size} }

func (r *Recorder) SetTextColor(c Color) { r.textColor = c }

func (r *Recorder) SetFillColor(c Color) { r.fillColor = c }

func (r *Recorder) SetDrawColor(c Color) { r.drawColor = c }

func (r *Recorder) SetLineWidth(width float64) { r.lineWidth = width }

func (r *Recorder) Text(x, y float64, s string) { r.TextWithLink(x, y, s, "") }

func (r *Recorder) TextWithLink(x, y float64, s, url string) {
	if s == "" {
		return
	}
	acc := r.collector.curr()
	acc.texts = append(acc.texts, TextRun{
		Content: s,
		X:       x,
		Y:       y,
		Width:   r.TextWidth(s),
		Font:    r.font,
		Color:   r.textColor,
		Link:    url,
	})
}

// TextWidth 以当前字体测量宽度（mm）。
func (r *Recorder) TextWidth(s string) float64 {
	if r.typesetter == nil || s == "" {
		return 0
	}
	return r.typesetter.TextWidth(s, r.font)
}

// SplitText 以当前字体折行，见 WrapText。
func (r *Recorder) SplitText(s string, maxWidth float64) []string {
	if r.typesetter == nil {
		return nil
	}
	return WrapText(r.typesetter, s, r.font, maxWidth)
}

func (r *Recorder) Rect(x, y, w, h float64, style string) {
	r.RoundedRect(x, y, w, h, 0, style)
}

func (r *Recorder) RoundedRect(x, y, w, h, radius float64, style string) {
	rect := Rect{X: x, Y: y, Width: w, Height: h, Radius: radius}
	fill, stroke := parseDrawStyle(style)
	if fill {
		c := r.fillColor
		rect.FillColor = &c
	}
	if stroke {
		c := r.drawColor
		rect.StrokeColor = &c
		rect.StrokeWidth = r.lineWidth
	}
	acc := r.collector.curr()
	acc.rects = append(acc.rects, rect)
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	acc := r.collector.curr()
	acc.lines = append(acc.lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: r.drawColor, Width: r.lineWidth})
}

func (r *Recorder) RegisterImage(img ImageResource) {
	if img.Name == "" {
		return
	}
	r.images[img.Name] = img
}

func (r *Recorder) Image(name string, x, y, w, h float64) {
	acc := r.collector.curr()
	acc.images = append(acc.images, ImageBox{Name: name, X: x, Y: y, Width: w, Height: h})
}

func (r *Recorder) SetMeta(meta DocumentMeta) { r.meta = meta }

// Result 返回收集到的显示列表。引用了未注册图片时返回错误。
func (r *Recorder) Result() (*Result, error) {
	pages := r.collector.pages()
	for i, page := range pages {
		for _, img := range page.Images {
			if _, ok := r.images[img.Name]; !ok {
				return nil, fmt.Errorf("第 %d 页引用了未注册的图片 %q", i+1, img.Name)
			}
		}
	}
	images := make(map[string]ImageResource, len(r.images))
	for name, img := range r.images {
		images[name] = img
	}
	return &Result{Pages: pages, Images: images, Meta: r.meta}, nil
}

// parseDrawStyle 解析 "F"/"D"/"FD"/"DF"，空串按描边处理。
func parseDrawStyle(style string) (fill, stroke bool) {
	switch style {
	case "F", "f":
		return true, false
	case "FD", "DF", "fd", "df", "B", "b":
		return true, true
	default:
		return false, true
	}
}
