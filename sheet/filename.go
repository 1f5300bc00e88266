package sheet

import (
	"strings"

	"github.com/ByLCY/winesheet/product"
)

const filenameTitleMax = 50

// Filename derives "<title-slug>-<code-slug>.pdf". The title part is cut
// to 50 characters.
func Filename(title, code string) string {
	base := product.Slug(title)
	if len(base) > filenameTitleMax {
		// Slug 只输出 ASCII，按字节截断是安全的
		base = strings.TrimRight(base[:filenameTitleMax], "-")
	}
	parts := make([]string, 0, 2)
	if base != "" {
		parts = append(parts, base)
	}
	if c := product.Slug(code); c != "" {
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		parts = append(parts, "product")
	}
	return strings.Join(parts, "-") + ".pdf"
}
