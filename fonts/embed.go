package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Family 是渲染器注册字体时使用的统一名称。
const Family = "Body"

// Styles 列出所有内置字形，顺序即注册顺序。
var Styles = []string{"", "B", "I", "BI"}

// Load 返回内置字体的 TTF 数据，style 使用 fpdf 约定：""/"B"/"I"/"BI"。
// 也接受 "embed:" 前缀以及 regular/bold/italic/bolditalic 写法。
func Load(style string) ([]byte, error) {
	switch normalize(style) {
	case "":
		return goregular.TTF, nil
	case "B":
		return gobold.TTF, nil
	case "I":
		return goitalic.TTF, nil
	case "BI":
		return gobolditalic.TTF, nil
	}
	return nil, fmt.Errorf("未知的内置字形 %q", style)
}

func normalize(style string) string {
	s := strings.TrimPrefix(strings.TrimSpace(style), "embed:")
	switch strings.ToLower(s) {
	case "", "regular", "normal":
		return ""
	case "b", "bold":
		return "B"
	case "i", "italic":
		return "I"
	case "bi", "ib", "bolditalic", "bold-italic":
		return "BI"
	}
	return s
}
