package sheet

import (
	"slices"
	"strings"
	"testing"

	"github.com/ByLCY/winesheet/product"
)

func TestMinimalProductDrawsOnlyTitlePriceAndFooter(t *testing.T) {
	g := newTestGenerator(t)
	res := layoutOf(t, g, minimalProduct())

	if len(res.Pages) != 1 {
		t.Fatalf("期望 1 页，得到 %d", len(res.Pages))
	}
	page := res.Pages[0]
	want := []string{"Rioja Reserva", "€12.50", "Koodi: AB123", "Luotu: 14.3.2025"}
	if got := contents(page); !slices.Equal(got, want) {
		t.Fatalf("文字不符: %q", got)
	}
	if len(page.Rects) != 1 {
		t.Fatalf("只应有价格条一个矩形，得到 %d", len(page.Rects))
	}
	if len(page.Lines) != 2 {
		t.Fatalf("应有分隔线和页脚线，得到 %d", len(page.Lines))
	}
	if len(page.Images) != 0 || len(res.Images) != 0 {
		t.Fatalf("图片加载失败时不应绘制图片")
	}

	labels := Finnish()
	for _, title := range []string{labels.QuickFacts, labels.Taste, labels.WineDetails, labels.Pairings,
		labels.ProducerDescription, labels.AdditionalInfo, labels.Awards} {
		if _, ok := findText(page, title); ok {
			t.Fatalf("不应出现区块 %q", title)
		}
	}
}

func TestTitleAndPricePositions(t *testing.T) {
	g := newTestGenerator(t)
	page := layoutOf(t, g, minimalProduct()).Pages[0]

	title, _ := findText(page, "Rioja Reserva")
	if !near(title.X, 20) || !near(title.Y, 20) || title.Font.Style != "B" || title.Font.Size != 20 {
		t.Fatalf("标题位置或字体不符: %+v", title)
	}
	divider := page.Lines[0]
	if !near(divider.Y1, 31) || !near(divider.X1, 20) || !near(divider.X2, 190) || !near(divider.Width, 0.5) {
		t.Fatalf("分隔线不符: %+v", divider)
	}
	strip := page.Rects[0]
	if !near(strip.Y, 36) || !near(strip.Height, 12) || !near(strip.Radius, 1) || strip.FillColor == nil {
		t.Fatalf("价格条不符: %+v", strip)
	}
	price, _ := findText(page, "€12.50")
	if !near(price.X, 23) || !near(price.Y, 43) {
		t.Fatalf("价格位置不符: %+v", price)
	}
	// "Koodi: AB123" 12 个字符 = 24mm，右对齐到 190-3
	code, _ := findText(page, "Koodi: AB123")
	if !near(code.X, 163) || !near(code.Y, 43) {
		t.Fatalf("编码位置不符: %+v", code)
	}
}

func TestTaglineIsItalicAndMuted(t *testing.T) {
	g := newTestGenerator(t)
	p := minimalProduct()
	p.TagLine = "Täyteläinen"
	page := layoutOf(t, g, p).Pages[0]

	tag, ok := findText(page, "Täyteläinen")
	if !ok {
		t.Fatalf("缺少副标题")
	}
	if tag.Font.Style != "I" || !near(tag.Y, 28) || tag.Color != g.theme.Muted {
		t.Fatalf("副标题不符: %+v", tag)
	}
	if !near(page.Lines[0].Y1, 36) {
		t.Fatalf("分隔线应下移到 36，得到 %v", page.Lines[0].Y1)
	}
}

func TestSortimentPrefixesCodeLine(t *testing.T) {
	g := newTestGenerator(t)
	p := minimalProduct()
	p.Sortiment = "Tilausvalikoima"
	page := layoutOf(t, g, p).Pages[0]
	if _, ok := findText(page, "Tilausvalikoima • Koodi: AB123"); !ok {
		t.Fatalf("缺少带分类的编码行: %q", contents(page))
	}
}

func TestQuickFactsCardGeometry(t *testing.T) {
	g := newTestGenerator(t)
	p := minimalProduct()
	p.Region = "Rioja"
	page := layoutOf(t, g, p).Pages[0]

	header, ok := findText(page, "Tuotetiedot")
	if !ok || !near(header.X, 93) || !near(header.Y, 60) {
		t.Fatalf("卡片标题不符: %+v", header)
	}
	label, _ := findText(page, "Alue:")
	value, _ := findText(page, "Rioja")
	if !near(label.X, 93) || !near(label.Y, 69) || label.Font.Style != "B" {
		t.Fatalf("标签不符: %+v", label)
	}
	if !near(value.X, 115) || !near(value.Y, 69) || value.Font.Style != "" {
		t.Fatalf("值不符: %+v", value)
	}

	// 价格条、标题带、边框
	if len(page.Rects) != 3 {
		t.Fatalf("期望 3 个矩形，得到 %d", len(page.Rects))
	}
	band, border := page.Rects[1], page.Rects[2]
	if !near(band.X, 90) || !near(band.Y, 55) || !near(band.Width, 100) || !near(band.Height, 8) || band.StrokeColor != nil {
		t.Fatalf("标题带不符: %+v", band)
	}
	if !near(border.Y, 55) || !near(border.Height, 23) || border.FillColor != nil || border.StrokeColor == nil {
		t.Fatalf("边框不符: %+v", border)
	}
}

func TestQuickFactsFormatsProducerAndAlcohol(t *testing.T) {
	g := newTestGenerator(t)
	p := minimalProduct()
	p.ProducerURL = "https://viinitalo.fi/tuottajat/bodegas-muga/?ref=sheet"
	p.Vintage = "2019"
	p.Alcohol = 13.5
	page := layoutOf(t, g, p).Pages[0]

	for _, want := range []string{"Tuottaja:", "bodegas-muga", "Vuosikerta:", "2019", "Alkoholi:", "13.5%"} {
		if _, ok := findText(page, want); !ok {
			t.Fatalf("缺少 %q: %q", want, contents(page))
		}
	}
	producer, _ := findText(page, "bodegas-muga")
	vintage, _ := findText(page, "2019")
	alcohol, _ := findText(page, "13.5%")
	if !near(producer.Y, 69) || !near(vintage.Y, 76) || !near(alcohol.Y, 83) {
		t.Fatalf("行距不符: %v %v %v", producer.Y, vintage.Y, alcohol.Y)
	}
}

func TestCardsStackInRightColumn(t *testing.T) {
	g := newTestGenerator(t)
	p := minimalProduct()
	p.Region = "Rioja"
	p.Taste = product.Taste{"Dry", "Oaky"}
	p.Closure = "Korkki"
	page := layoutOf(t, g, p).Pages[0]

	// 第一张卡片结束于 76+5，第二张从 81 开始
	taste, _ := findText(page, "Makuprofiili")
	if !near(taste.Y, 86) {
		t.Fatalf("第二张卡片标题应在 86，得到 %v", taste.Y)
	}
	text, _ := findText(page, "Dry, Oaky")
	if !near(text.X, 93) || !near(text.Y, 95) {
		t.Fatalf("口味文字不符: %+v", text)
	}
	// 口味卡片 95 → 100 → 101，下一张从 106 开始
	details, _ := findText(page, "Viinin tiedot")
	if !near(details.Y, 111) {
		t.Fatalf("第三张卡片标题应在 111，得到 %v", details.Y)
	}
}

func TestCompositionWrapsBackToColumnStart(t *testing.T) {
	g := newTestGenerator(t)
	p := minimalProduct()
	p.Composition = "Tempranillo 80%, Garnacha 15%, Graciano 5%"
	page := layoutOf(t, g, p).Pages[0]

	first, ok := findText(page, "Tempranillo 80%, Garnacha 15%,")
	if !ok {
		t.Fatalf("缺少第一行: %q", contents(page))
	}
	second, _ := findText(page, "Graciano 5%")
	if !near(first.X, 118) || !near(first.Y, 69) {
		t.Fatalf("第一行应从标签后开始: %+v", first)
	}
	if !near(second.X, 93) || !near(second.Y, 73) {
		t.Fatalf("折行应回到栏首: %+v", second)
	}
	border := page.Rects[len(page.Rects)-1]
	if !near(border.Height, 27) {
		t.Fatalf("边框高度应为 27，得到 %v", border.Height)
	}
}

func TestImageIsCenteredInLeftColumn(t *testing.T) {
	g := newTestGenerator(t, WithImageLoader(staticImages{img: jpegImage(t, 600, 1000)}))
	p := minimalProduct()
	p.IsNew = true
	p.Organic = true
	p.Region = "Rioja"
	res := layoutOf(t, g, p)
	page := res.Pages[0]

	if len(page.Images) != 1 {
		t.Fatalf("期望 1 张图片，得到 %d", len(page.Images))
	}
	box := page.Images[0]
	if box.Name != ImageName || !near(box.X, 22.5) || !near(box.Y, 55) || !near(box.Width, 60) || !near(box.Height, 100) {
		t.Fatalf("图片框不符: %+v", box)
	}
	if res.Images[ImageName].PixelWidth != 600 {
		t.Fatalf("图片资源未注册")
	}

	badges, ok := findText(page, "Uusi • Luomu")
	if !ok || !near(badges.X, 38) || !near(badges.Y, 163) || badges.Color != g.theme.Accent {
		t.Fatalf("徽章不符: %+v", badges)
	}
}

func TestFullWidthRegionStartsBelowTallerColumn(t *testing.T) {
	g := newTestGenerator(t, WithImageLoader(staticImages{img: jpegImage(t, 1200, 300)}))
	p := minimalProduct()
	p.Fish = true
	page := layoutOf(t, g, p).Pages[0]

	// 图片 60×15，左栏结束于 55+15+30=100
	header, ok := findText(page, "Ruokayhdistelmät")
	if !ok || !near(header.Y, 105) || !near(header.X, 23) {
		t.Fatalf("通栏区块位置不符: %+v", header)
	}
}

func TestFoodPairingsAreJoinedInFixedOrder(t *testing.T) {
	g := newTestGenerator(t, WithLabels(English()))
	p := minimalProduct()
	p.Sweets = true
	p.LambMeat = true
	p.Fish = true
	page := layoutOf(t, g, p).Pages[0]

	line, ok := findText(page, "Fish • Lamb • Sweets")
	if !ok {
		t.Fatalf("食物搭配顺序不符: %q", contents(page))
	}
	if !near(line.X, 23) || !near(line.Y, 175) {
		t.Fatalf("搭配文字位置不符: %+v", line)
	}
}

func TestProducerDescriptionTruncation(t *testing.T) {
	word := strings.Repeat("x", 80)
	for _, tc := range []struct {
		lines int
		want  int
	}{
		{lines: 15, want: 15},
		{lines: 16, want: 15},
		{lines: 3, want: 3},
	} {
		g := newTestGenerator(t)
		p := minimalProduct()
		words := make([]string, tc.lines)
		for i := range words {
			words[i] = word
		}
		p.ProducerDescription = "<p>" + strings.Join(words, " ") + "</p>"
		res := layoutOf(t, g, p)

		if len(res.Pages) != 1 {
			t.Fatalf("%d 行: 不应换页", tc.lines)
		}
		if got := countText(res.Pages[0], word); got != tc.want {
			t.Fatalf("%d 行: 期望渲染 %d 行，得到 %d", tc.lines, tc.want, got)
		}
	}
}

func TestMarkupOnlyDescriptionIsOmitted(t *testing.T) {
	g := newTestGenerator(t)
	p := minimalProduct()
	p.ProducerDescription = "<p> <br/> </p>"
	page := layoutOf(t, g, p).Pages[0]
	if _, ok := findText(page, "Tietoa tuottajasta"); ok {
		t.Fatalf("去掉标签后为空的描述不应绘制")
	}
}

func TestInfoAndAwardsCaps(t *testing.T) {
	g := newTestGenerator(t)
	word := strings.Repeat("y", 80)
	p := minimalProduct()
	p.AdditionalInfo = strings.TrimSpace(strings.Repeat(word+" ", 12))
	p.Awards = strings.TrimSpace(strings.Repeat(word+" ", 9))
	res := layoutOf(t, g, p)

	total := 0
	for _, page := range res.Pages {
		total += countText(page, word)
	}
	if total != 10+8 {
		t.Fatalf("期望 18 行，得到 %d", total)
	}
}

func TestFooterLinkAndStamp(t *testing.T) {
	g := newTestGenerator(t)
	p := minimalProduct()
	p.BuyLink = "https://viinitalo.fi/tuotteet/rioja-reserva"
	page := layoutOf(t, g, p).Pages[0]

	link, ok := findText(page, "Osta tämä viini →")
	if !ok || link.Link != p.BuyLink || !near(link.X, 20) || !near(link.Y, 285) {
		t.Fatalf("购买链接不符: %+v", link)
	}
	stamp, _ := findText(page, "Luotu: 14.3.2025")
	if !near(stamp.X, 158) || !near(stamp.Y, 285) || stamp.Color != g.theme.Muted {
		t.Fatalf("日期不符: %+v", stamp)
	}
	footer := page.Lines[len(page.Lines)-1]
	if !near(footer.Y1, 281) || footer.Color != g.theme.Accent {
		t.Fatalf("页脚线不符: %+v", footer)
	}
}

func TestProducerName(t *testing.T) {
	cases := map[string]string{
		"https://viinitalo.fi/tuottajat/bodegas-muga":         "bodegas-muga",
		"https://viinitalo.fi/tuottajat/bodegas-muga/":        "bodegas-muga",
		"https://viinitalo.fi/tuottajat/muga?ref=1#top":       "muga",
		"/tuottajat/cvne":                                     "cvne",
		"https://viinitalo.fi":                                "Tuottaja",
		"https://viinitalo.fi/":                               "Tuottaja",
		"https://viinitalo.fi/tuottajat/Ch%C3%A2teau%20Musar": "Château Musar",
	}
	for raw, want := range cases {
		if got := producerName(raw, "Tuottaja"); got != want {
			t.Errorf("producerName(%q) = %q, 期望 %q", raw, got, want)
		}
	}
}

func TestImageBoxKeepsAspectRatio(t *testing.T) {
	cases := []struct {
		pw, ph int
		w, h   float64
	}{
		{600, 1000, 60, 100},
		{300, 1000, 30, 100},
		{1200, 600, 60, 30},
		{0, 100, 0, 0},
	}
	for _, tc := range cases {
		w, h := imageBox(tc.pw, tc.ph, 60, 100)
		if !near(w, tc.w) || !near(h, tc.h) {
			t.Errorf("imageBox(%d,%d) = %v×%v, 期望 %v×%v", tc.pw, tc.ph, w, h, tc.w, tc.h)
		}
	}
}
