package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ByLCY/winesheet/config"
	"github.com/ByLCY/winesheet/imageloader"
	"github.com/ByLCY/winesheet/logging"
	"github.com/ByLCY/winesheet/renderer"
	canvasrenderer "github.com/ByLCY/winesheet/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/winesheet/renderer/fpdf"
	"github.com/ByLCY/winesheet/sheet"
	"github.com/ByLCY/winesheet/store"
	"github.com/ByLCY/winesheet/theme"
)

// app 持有命令共享的配置、日志和数据库连接。
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
}

func (a *app) init(opts *rootOpts) error {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: opts.configFile, EnvFile: opts.envFile})
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil && a.logger != nil {
			a.logger.Warn("closing database", zap.Error(err))
		}
		a.db = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) newRenderer(name string) (renderer.Renderer, error) {
	switch name {
	case "", "fpdf":
		return fpdfrenderer.NewRenderer(), nil
	case "canvas":
		return canvasrenderer.NewRenderer(), nil
	default:
		return nil, fmt.Errorf("未知的渲染器 %q", name)
	}
}

func (a *app) newImageLoader(ctx context.Context) (*imageloader.Loader, error) {
	m := a.cfg.Media
	opts := []imageloader.Option{
		imageloader.WithHTTPClient(&http.Client{Timeout: m.Timeout}),
		imageloader.WithBaseURL(m.BaseURL),
		imageloader.WithOrigin(m.Origin),
		imageloader.WithPublicDir(m.PublicDir),
		imageloader.WithPlaceholder(m.Placeholder),
		imageloader.WithMaxDimension(m.MaxDimension),
		imageloader.WithLogger(a.logger.Named("images")),
	}
	if a.cfg.S3.Enabled {
		client, err := imageloader.NewS3Client(ctx, a.cfg.S3.S3Config)
		if err != nil {
			return nil, err
		}
		opts = append(opts, imageloader.WithObjectStore(client))
	}
	return imageloader.New(opts...), nil
}

// generatorOverrides 来自命令行，优先于配置文件。
type generatorOverrides struct {
	renderer string
	locale   string
}

func (a *app) newGenerator(ctx context.Context, o generatorOverrides) (*sheet.Generator, error) {
	doc := a.cfg.Document
	if o.renderer != "" {
		doc.Renderer = o.renderer
	}
	if o.locale != "" {
		doc.Locale = o.locale
	}

	r, err := a.newRenderer(doc.Renderer)
	if err != nil {
		return nil, err
	}
	labels, err := sheet.LabelsFor(doc.Locale)
	if err != nil {
		return nil, err
	}
	th := theme.Default()
	if doc.Theme != "" {
		if th, err = theme.Load(doc.Theme); err != nil {
			return nil, err
		}
	}
	images, err := a.newImageLoader(ctx)
	if err != nil {
		return nil, err
	}
	return sheet.NewGenerator(r,
		sheet.WithLogger(a.logger.Named("sheet")),
		sheet.WithTheme(th),
		sheet.WithLabels(labels),
		sheet.WithImageLoader(images),
		sheet.WithValidation(doc.Validate),
	)
}

func (a *app) openRepository(ctx context.Context) (*store.PostgresRepository, error) {
	if a.db == nil {
		db, err := store.Open(ctx, a.cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
	}
	return store.NewPostgresRepository(a.db, a.logger.Named("store")), nil
}
