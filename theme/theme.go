// Package theme loads the colours, font sizes and document authoring fields
// used when drawing product sheets.
package theme

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/winesheet/layout"
)

//go:embed default.theme
var defaultSource string

// Theme is the resolved form of a theme file. Sizes are in pt, Rule in mm.
type Theme struct {
	Name    string
	Author  string
	Creator string

	Heading layout.Color
	Body    layout.Color
	Muted   layout.Color
	Accent  layout.Color
	Divider layout.Color
	Border  layout.Color
	Tint    layout.Color
	Badge   layout.Color

	TitleSize     float64
	TaglineSize   float64
	PriceSize     float64
	CodeSize      float64
	CardTitleSize float64
	BodySize      float64
	BadgeSize     float64
	FooterSize    float64
	Rule          float64
}

// Default returns the built-in theme.
func Default() *Theme {
	th, err := FromString(defaultSource)
	if err != nil {
		panic(fmt.Sprintf("内置主题无效: %v", err))
	}
	return th
}

// Load reads and resolves a theme file. Keys the file leaves out keep their
// default values.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取主题文件 %s: %w", path, err)
	}
	return FromString(string(data))
}

// FromString parses src on top of the built-in defaults.
func FromString(src string) (*Theme, error) {
	doc, err := ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("解析主题失败: %w", err)
	}
	th := &Theme{}
	if src != defaultSource {
		th = Default()
	}
	if err := th.apply(doc); err != nil {
		return nil, err
	}
	return th, nil
}

func (th *Theme) apply(doc *Document) error {
	th.Name = doc.Name
	for _, section := range doc.Sections {
		for _, a := range section.Block.Assignments {
			var err error
			switch section.Kind {
			case "meta":
				err = th.applyMeta(a.Key, a.Value.Raw())
			case "colors":
				err = th.applyColor(a.Key, a.Value.Raw())
			case "sizes":
				err = th.applySize(a.Key, a.Value.Raw())
			}
			if err != nil {
				return fmt.Errorf("%s (%s): %w", a.Key, a.Pos, err)
			}
		}
	}
	return nil
}

func (th *Theme) applyMeta(key, value string) error {
	switch key {
	case "author":
		th.Author = value
	case "creator":
		th.Creator = value
	default:
		return fmt.Errorf("未知的 meta 字段")
	}
	return nil
}

func (th *Theme) applyColor(key, value string) error {
	c, err := ParseColor(value)
	if err != nil {
		return err
	}
	target := map[string]*layout.Color{
		"heading": &th.Heading,
		"body":    &th.Body,
		"muted":   &th.Muted,
		"accent":  &th.Accent,
		"divider": &th.Divider,
		"border":  &th.Border,
		"tint":    &th.Tint,
		"badge":   &th.Badge,
	}[key]
	if target == nil {
		return fmt.Errorf("未知的颜色名")
	}
	*target = c
	return nil
}

func (th *Theme) applySize(key, value string) error {
	length := layout.ParseRawLengthStr(value)
	if length.Value <= 0 {
		return fmt.Errorf("无效的尺寸 %q", value)
	}
	if key == "rule" {
		if length.Unit == layout.UnitNone {
			th.Rule = length.Value
		} else {
			th.Rule = length.ToMM()
		}
		return nil
	}
	target := map[string]*float64{
		"title":     &th.TitleSize,
		"tagline":   &th.TaglineSize,
		"price":     &th.PriceSize,
		"code":      &th.CodeSize,
		"cardTitle": &th.CardTitleSize,
		"body":      &th.BodySize,
		"badge":     &th.BadgeSize,
		"footer":    &th.FooterSize,
	}[key]
	if target == nil {
		return fmt.Errorf("未知的尺寸名")
	}
	// 字号缺省单位为 pt
	if length.Unit == layout.UnitNone {
		*target = length.Value
	} else {
		*target = length.ToPT()
	}
	return nil
}

// ParseColor accepts #RGB and #RRGGBB.
func ParseColor(s string) (layout.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return layout.Color{}, fmt.Errorf("无效的颜色 %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("无效的颜色 %q: %w", s, err)
	}
	return layout.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
