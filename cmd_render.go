package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/winesheet/layout"
	"github.com/ByLCY/winesheet/product"
)

type renderOpts struct {
	productFile string
	slug        string
	id          int64
	outDir      string
	debugPath   string
	generatorOverrides
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOpts{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "为一个产品生成 PDF",
		Example: `  winesheet render --product musar.json --out output
  winesheet render --slug chateau-musar-2017 --debug output/layout.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.productFile, "product", "", "产品 JSON 文件")
	f.StringVar(&opts.slug, "slug", "", "从数据库按 slug 读取产品")
	f.Int64Var(&opts.id, "id", 0, "从数据库按 id 读取产品")
	f.StringVar(&opts.outDir, "out", ".", "PDF 输出目录")
	f.StringVar(&opts.debugPath, "debug", "", "布局调试 JSON 输出路径")
	f.StringVar(&opts.renderer, "renderer", "", "覆盖渲染器 fpdf|canvas")
	f.StringVar(&opts.locale, "locale", "", "覆盖语言 fi|en")
	cmd.MarkFlagsOneRequired("product", "slug", "id")
	cmd.MarkFlagsMutuallyExclusive("product", "slug", "id")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, opts *renderOpts) error {
	ctx := cmd.Context()
	p, err := loadProduct(ctx, a, opts)
	if err != nil {
		return err
	}

	gen, err := a.newGenerator(ctx, opts.generatorOverrides)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), gen.Labels().Busy)
	doc, res, err := gen.GenerateWithLayout(ctx, p)
	if err != nil {
		return fmt.Errorf("%s: %w", strings.TrimSuffix(gen.Labels().GenerationFailed, "."), err)
	}

	if opts.debugPath != "" {
		if err := writeDebug(res, opts.debugPath); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out := filepath.Join(opts.outDir, doc.Filename)
	if err := os.WriteFile(out, doc.Data, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	a.logger.Info("wrote product sheet", zap.String("path", out), zap.Int("pages", doc.Pages))
	fmt.Fprintf(cmd.OutOrStdout(), "已生成 PDF：%s\n", out)
	return nil
}

func loadProduct(ctx context.Context, a *app, opts *renderOpts) (*product.Product, error) {
	if opts.productFile != "" {
		return readProductFile(opts.productFile)
	}
	repo, err := a.openRepository(ctx)
	if err != nil {
		return nil, err
	}
	if opts.slug != "" {
		return repo.GetBySlug(ctx, opts.slug)
	}
	return repo.GetByID(ctx, opts.id)
}

func readProductFile(path string) (*product.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取产品文件 %s: %w", path, err)
	}
	var p product.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("解析产品 JSON 失败: %w", err)
	}
	return &p, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
