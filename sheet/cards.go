package sheet

import (
	"github.com/ByLCY/winesheet/imageloader"
	"github.com/ByLCY/winesheet/layout"
	"github.com/ByLCY/winesheet/product"
	"github.com/ByLCY/winesheet/theme"
)

const (
	headerBand    = 8.0
	headerAdvance = 10.0
	// 卡片内容从卡片顶部向下 14mm 开始，标题带占 8mm
	cardContentOffset = 14.0
	cardGap           = 5.0
)

// drawContext 是一次生成所需的全部只读状态。游标不在这里，而是由各个
// builder 以参数传入、以返回值传出。
type drawContext struct {
	c      layout.Canvas
	geo    Geometry
	th     *theme.Theme
	labels Labels
	p      *product.Product
	image  *imageloader.Image
	pager  *Paginator
}

// drawSectionHeader 绘制着色标题带和标题文字，返回 y+10。
func (dc *drawContext) drawSectionHeader(title string, x, y, w float64) float64 {
	dc.c.SetFillColor(dc.th.Tint)
	dc.c.Rect(x, y, w, headerBand, "F")
	dc.c.SetFont("B", dc.th.CardTitleSize)
	dc.c.SetTextColor(dc.th.Accent)
	dc.c.Text(x+3, y+5, title)
	return y + headerAdvance
}

// openCard 画出右栏卡片的标题，返回内容起点。
func (dc *drawContext) openCard(title string, start float64) float64 {
	dc.drawSectionHeader(title, dc.geo.RightX(), start, dc.geo.RightWidth())
	dc.bodyFont("")
	return start + cardContentOffset
}

// closeCard 在内容高度已知后补画包住标题和内容的边框。
func (dc *drawContext) closeCard(start, end float64) {
	dc.stroke(dc.th.Border)
	dc.c.Rect(dc.geo.RightX(), start, dc.geo.RightWidth(), end-start+2, "D")
}

// card 执行 open → content → close，返回下一张卡片的起点。
func (dc *drawContext) card(title string, start float64, content func(y float64) float64) float64 {
	end := content(dc.openCard(title, start))
	dc.closeCard(start, end)
	return end + cardGap
}

// factRow 画一行 "标签: 值"，值从 x+25 开始。
func (dc *drawContext) factRow(label, value string, y float64) float64 {
	x := dc.geo.RightX()
	dc.bodyFont("B")
	dc.c.Text(x+3, y, label)
	dc.bodyFont("")
	dc.c.Text(x+25, y, value)
	return y + 7
}

// fullWidthSection 画通栏区块：标题带，最多 maxLines 行正文，边框。
// maxLines <= 0 表示不截断。
func (dc *drawContext) fullWidthSection(title, text string, maxLines int, y float64) float64 {
	g := dc.geo
	start := y
	y = dc.drawSectionHeader(title, g.Margin, y, g.ContentWidth())

	dc.bodyFont("")
	lines := dc.c.SplitText(text, g.ContentWidth()-6)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for _, line := range lines {
		dc.c.Text(g.Margin+3, y, line)
		y += 4
	}
	y += 2

	dc.stroke(dc.th.Border)
	dc.c.Rect(g.Margin, start, g.ContentWidth(), y-start, "D")
	return y + cardGap
}

func (dc *drawContext) bodyFont(style string) {
	dc.c.SetFont(style, dc.th.BodySize)
	dc.c.SetTextColor(dc.th.Body)
}

func (dc *drawContext) stroke(c layout.Color) {
	dc.c.SetDrawColor(c)
	dc.c.SetLineWidth(dc.th.Rule)
}
