package layout

// Canvas 是分节构建器使用的绘图接口：有状态的字体/颜色设置加绝对坐标绘制。
// 坐标单位为 mm，文字的 y 为基线；style 取 "F"（填充）、"D"（描边）或 "FD"。
type Canvas interface {
	PageSize() (width, height float64)
	PageCount() int
	AddPage()

	SetFont(style string, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	SetLineWidth(width float64)

	Text(x, y float64, s string)
	TextWithLink(x, y float64, s, url string)
	TextWidth(s string) float64
	SplitText(s string, maxWidth float64) []string

	Rect(x, y, w, h float64, style string)
	RoundedRect(x, y, w, h, r float64, style string)
	Line(x1, y1, x2, y2 float64)

	RegisterImage(img ImageResource)
	Image(name string, x, y, w, h float64)

	SetMeta(meta DocumentMeta)
}
