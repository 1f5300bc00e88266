package renderer

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ByLCY/winesheet/layout"
)

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

func init() {
	// pdfcpu 默认会在用户目录下写配置文件，服务端不需要。
	api.DisableConfigDir()
}

// Validate 使用 pdfcpu 校验 PDF 结构并返回页数。
func Validate(pdf []byte) (int, error) {
	if len(pdf) == 0 {
		return 0, fmt.Errorf("PDF 内容为空")
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(pdf), conf); err != nil {
		return 0, fmt.Errorf("PDF 结构校验失败: %w", err)
	}
	pages, err := api.PageCount(bytes.NewReader(pdf), conf)
	if err != nil {
		return 0, fmt.Errorf("读取 PDF 页数失败: %w", err)
	}
	return pages, nil
}
