package sheet

import (
	"math"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"github.com/ByLCY/winesheet/layout"
	"github.com/ByLCY/winesheet/product"
)

// ImageName is the resource name the product image is registered under.
const ImageName = "product"

// builder 接收当前游标并返回新的游标。
type builder func(dc *drawContext, y float64) float64

// sectionOrder 即绘制顺序。
var sectionOrder = []struct {
	name string
	draw builder
}{
	{"title", drawTitleBlock},
	{"price", drawPriceBlock},
	{"upper", drawUpperRegion},
	{"pairings", drawPairings},
	{"producerDescription", drawProducerDescription},
	{"additionalInfo", drawAdditionalInfo},
	{"awards", drawAwards},
}

func drawTitleBlock(dc *drawContext, y float64) float64 {
	g, th, c := dc.geo, dc.th, dc.c

	c.SetFont("B", th.TitleSize)
	c.SetTextColor(th.Heading)
	for _, line := range c.SplitText(dc.p.Title, g.ContentWidth()) {
		c.Text(g.Margin, y, line)
		y += 7
	}
	y++

	if strings.TrimSpace(dc.p.TagLine) != "" {
		c.SetFont("I", th.TaglineSize)
		c.SetTextColor(th.Muted)
		for _, line := range c.SplitText(dc.p.TagLine, g.ContentWidth()) {
			c.Text(g.Margin, y, line)
			y += 5
		}
	}
	y += 3

	dc.stroke(th.Divider)
	c.Line(g.Margin, y, g.PageWidth-g.Margin, y)
	return y + 8
}

func drawPriceBlock(dc *drawContext, y float64) float64 {
	g, th, c := dc.geo, dc.th, dc.c

	c.SetFillColor(th.Tint)
	c.RoundedRect(g.Margin, y-3, g.ContentWidth(), 12, 1, "F")

	c.SetFont("B", th.PriceSize)
	c.SetTextColor(th.Accent)
	c.Text(g.Margin+3, y+4, dc.p.FormattedPrice())

	c.SetFont("", th.CodeSize)
	c.SetTextColor(th.Muted)
	code := dc.labels.CodeLine(dc.p.Sortiment, dc.p.ProductCode)
	c.Text(g.PageWidth-g.Margin-c.TextWidth(code)-3, y+4, code)
	return y + 16
}

// drawUpperRegion 左栏放图片和徽章，右栏依次放三张卡片。
// 返回通栏区域的起点。
func drawUpperRegion(dc *drawContext, y float64) float64 {
	imageTop := y
	imageHeight := drawProductImage(dc, imageTop)
	drawBadges(dc, imageTop+imageHeight+6)

	right := imageTop
	right = drawQuickFacts(dc, right)
	right = drawTaste(dc, right)
	right = drawWineDetails(dc, right)
	return math.Max(right, imageTop+imageHeight+30)
}

// imageBox 在 max 框内保持宽高比。
func imageBox(pxWidth, pxHeight int, maxWidth, maxHeight float64) (w, h float64) {
	if pxWidth <= 0 || pxHeight <= 0 {
		return 0, 0
	}
	w = maxWidth
	h = float64(pxHeight) / float64(pxWidth) * maxWidth
	if h > maxHeight {
		h = maxHeight
		w = float64(pxWidth) / float64(pxHeight) * maxHeight
	}
	return w, h
}

// drawProductImage 返回图片占用的高度；没有图片时预留固定高度。
func drawProductImage(dc *drawContext, top float64) float64 {
	g := dc.geo
	img := dc.image
	if img == nil {
		return g.ImageFallbackHeight
	}
	w, h := imageBox(img.Width, img.Height, g.ImageMaxWidth, g.ImageMaxHeight)
	if w == 0 {
		return g.ImageFallbackHeight
	}
	dc.c.RegisterImage(layout.ImageResource{
		Name:        ImageName,
		Format:      img.Format,
		PixelWidth:  img.Width,
		PixelHeight: img.Height,
		Data:        img.Data,
	})
	dc.c.Image(ImageName, g.Margin+(g.LeftColumnWidth-w)/2, top, w, h)
	return h
}

func drawBadges(dc *drawContext, badgeY float64) {
	names := dc.labels.BadgeLabels(product.Badges(dc.p))
	if len(names) == 0 {
		return
	}
	g, th, c := dc.geo, dc.th, dc.c

	c.SetFillColor(th.Badge)
	c.RoundedRect(g.Margin, badgeY-2, g.BadgeWidth, 8, 1, "F")

	c.SetFont("", th.BadgeSize)
	c.SetTextColor(th.Accent)
	y := badgeY + 2
	for _, line := range c.SplitText(strings.Join(names, " • "), g.BadgeTextWidth) {
		c.Text(g.Margin+(g.BadgeWidth-c.TextWidth(line))/2, y, line)
		y += 3.5
	}
}

func drawQuickFacts(dc *drawContext, y float64) float64 {
	p := dc.p
	if p.ProducerURL == "" && p.Region == "" && p.Vintage == "" && p.Alcohol == 0 {
		return y
	}
	return dc.card(dc.labels.QuickFacts, y, func(y float64) float64 {
		x, w := dc.geo.RightX(), dc.geo.RightWidth()
		if p.ProducerURL != "" {
			dc.bodyFont("B")
			dc.c.Text(x+3, y, dc.labels.Producer)
			dc.bodyFont("")
			lines := dc.c.SplitText(producerName(p.ProducerURL, dc.labels.ProducerFallback), w-30)
			for i, line := range lines {
				// 折行后的内容回到栏首，避免压住标签
				if i == 0 {
					dc.c.Text(x+25, y, line)
				} else {
					dc.c.Text(x+3, y, line)
				}
				if i < len(lines)-1 {
					y += 4
				}
			}
			y += 7
		}
		if p.Region != "" {
			y = dc.factRow(dc.labels.Region, p.Region, y)
		}
		if p.Vintage != "" {
			y = dc.factRow(dc.labels.Vintage, p.Vintage, y)
		}
		if p.Alcohol != 0 {
			y = dc.factRow(dc.labels.Alcohol, formatNumber(p.Alcohol)+"%", y)
		}
		return y
	})
}

func drawTaste(dc *drawContext, y float64) float64 {
	if len(dc.p.Taste) == 0 {
		return y
	}
	return dc.card(dc.labels.Taste, y, func(y float64) float64 {
		x, w := dc.geo.RightX(), dc.geo.RightWidth()
		for _, line := range dc.c.SplitText(strings.Join(dc.p.Taste, ", "), w-6) {
			dc.c.Text(x+3, y, line)
			y += 5
		}
		return y + 1
	})
}

func drawWineDetails(dc *drawContext, y float64) float64 {
	p := dc.p
	if p.BottleVolume == 0 && p.Composition == "" && p.Closure == "" {
		return y
	}
	return dc.card(dc.labels.WineDetails, y, func(y float64) float64 {
		x, w := dc.geo.RightX(), dc.geo.RightWidth()
		if p.BottleVolume != 0 {
			y = dc.factRow(dc.labels.Volume, formatNumber(p.BottleVolume)+" ml", y)
		}
		if p.Composition != "" {
			dc.bodyFont("B")
			dc.c.Text(x+3, y, dc.labels.Composition)
			dc.bodyFont("")
			for i, line := range dc.c.SplitText(p.Composition, w-30) {
				if i == 0 {
					dc.c.Text(x+28, y, line)
				} else {
					dc.c.Text(x+3, y, line)
				}
				y += 4
			}
			y += 3
		}
		if p.Closure != "" {
			y = dc.factRow(dc.labels.Closure, p.Closure, y)
		}
		return y
	})
}

func drawPairings(dc *drawContext, y float64) float64 {
	names := dc.labels.PairingLabels(product.FoodPairings(dc.p))
	if len(names) == 0 {
		return y
	}
	return dc.fullWidthSection(dc.labels.Pairings, strings.Join(names, " • "), 0, y)
}

const (
	descriptionMaxLines = 15
	infoMaxLines        = 10
	awardsMaxLines      = 8

	descriptionMinSpace = 70.0
	infoMinSpace        = 50.0
	awardsMinSpace      = 40.0
)

func drawProducerDescription(dc *drawContext, y float64) float64 {
	text := layout.StripMarkup(dc.p.ProducerDescription)
	if text == "" {
		return y
	}
	y = dc.pager.EnsureSpace("producerDescription", y, descriptionMinSpace)
	return dc.fullWidthSection(dc.labels.ProducerDescription, text, descriptionMaxLines, y)
}

func drawAdditionalInfo(dc *drawContext, y float64) float64 {
	if strings.TrimSpace(dc.p.AdditionalInfo) == "" {
		return y
	}
	y = dc.pager.EnsureSpace("additionalInfo", y, infoMinSpace)
	return dc.fullWidthSection(dc.labels.AdditionalInfo, dc.p.AdditionalInfo, infoMaxLines, y)
}

func drawAwards(dc *drawContext, y float64) float64 {
	if strings.TrimSpace(dc.p.Awards) == "" {
		return y
	}
	y = dc.pager.EnsureSpace("awards", y, awardsMinSpace)
	return dc.fullWidthSection(dc.labels.Awards, dc.p.Awards, awardsMaxLines, y)
}

// drawFooter 固定在最后一页底部，不参与分页。
func drawFooter(dc *drawContext, generated string) {
	g, th, c := dc.geo, dc.th, dc.c
	footerY := g.PageHeight - 12

	dc.stroke(th.Accent)
	c.Line(g.Margin, footerY-4, g.PageWidth-g.Margin, footerY-4)

	c.SetFont("", th.FooterSize)
	c.SetTextColor(th.Accent)
	if dc.p.BuyLink != "" {
		c.TextWithLink(g.Margin, footerY, dc.labels.BuyLink, dc.p.BuyLink)
	}

	c.SetTextColor(th.Muted)
	c.Text(g.PageWidth-g.Margin-c.TextWidth(generated), footerY, generated)
}

// producerName 取 URL 的最后一段路径，忽略结尾斜杠、查询串和片段。
func producerName(raw, fallback string) string {
	path := strings.TrimSpace(raw)
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	} else {
		path, _, _ = strings.Cut(path, "?")
		path, _, _ = strings.Cut(path, "#")
	}
	segments := lo.Filter(strings.Split(path, "/"), func(seg string, _ int) bool {
		return strings.TrimSpace(seg) != ""
	})
	if len(segments) == 0 {
		return fallback
	}
	return segments[len(segments)-1]
}
