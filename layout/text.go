package layout

import (
	"regexp"
	"strings"
)

// Typesetter 负责测量文本宽度，由具体渲染器实现以保证测量与绘制使用同一套字体度量。
type Typesetter interface {
	// TextWidth 返回 s 以 font 绘制时的宽度（mm）。
	TextWidth(s string, font Font) float64
}

// FontChecker 由需要预先加载字体的 Typesetter 实现。字体不可用时
// TextWidth 只能返回 0，所以布局前应先调用 Ready。
type FontChecker interface {
	Ready() error
}

var (
	markupPattern     = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// StripMarkup 将 <...> 标签替换为空格，合并空白并去掉首尾空白。
// 实体原样保留，未闭合的 "<" 按普通文本保留。
func StripMarkup(markup string) string {
	if markup == "" {
		return ""
	}
	text := markupPattern.ReplaceAllString(markup, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// WrapText 以贪心方式在空白处折行，使每行宽度不超过 maxWidth。
// 单个超长的词独占一行（允许溢出），不会在词内拆分。显式换行会开启新段落。
func WrapText(ts Typesetter, text string, font Font, maxWidth float64) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, greedyWrap(ts, words, font, maxWidth)...)
	}
	return trimBlankEdges(lines)
}

func greedyWrap(ts Typesetter, words []string, font Font, maxWidth float64) []string {
	var lines []string
	var builder strings.Builder
	for _, word := range words {
		if builder.Len() == 0 {
			builder.WriteString(word)
			continue
		}
		candidate := builder.String() + " " + word
		if ts.TextWidth(candidate, font) <= maxWidth {
			builder.WriteString(" ")
			builder.WriteString(word)
			continue
		}
		lines = append(lines, builder.String())
		builder.Reset()
		builder.WriteString(word)
	}
	if builder.Len() > 0 {
		lines = append(lines, builder.String())
	}
	return lines
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}
