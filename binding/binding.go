// Package binding fills ${name} placeholders in label templates.
package binding

import (
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${name} 替换为 values 中的值。
// 支持 ${name|fallback}：键不存在或值为空串时使用 fallback。
// 键不存在且没有 fallback 时保留原占位符。
func Interpolate(text string, values map[string]string) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		name, fallback, hasFallback := parseExpr(match[2 : len(match)-1])
		if name == "" {
			return match
		}
		if val, ok := values[name]; ok && (val != "" || !hasFallback) {
			return val
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Placeholders 按出现顺序返回模板中引用的键（去重）。
func Placeholders(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		name, _, _ := parseExpr(groups[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func parseExpr(expr string) (name, fallback string, hasFallback bool) {
	name, fallback, hasFallback = strings.Cut(expr, "|")
	return strings.TrimSpace(name), fallback, hasFallback
}
