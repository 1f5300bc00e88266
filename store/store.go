// Package store reads catalogue products from Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/ByLCY/winesheet/product"
)

// ErrNotFound is returned when no product matches the lookup.
var ErrNotFound = errors.New("product not found")

// ProductRepository is the read side the generator needs.
type ProductRepository interface {
	GetBySlug(ctx context.Context, slug string) (*product.Product, error)
	GetByID(ctx context.Context, id int64) (*product.Product, error)
}

// Config describes the database connection. URL wins over the separate fields.
type Config struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the pgx connection string.
func (c Config) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	if c.Host == "" || c.User == "" || c.Name == "" {
		return "", fmt.Errorf("database connection not configured: set database.url or database.host, database.user and database.name")
	}
	port := c.Port
	if port == "" {
		port = "5432"
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, port, c.User, c.Password, c.Name, sslmode), nil
}

// Open connects through the pgx database/sql driver and pings the server.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// productColumns 与 scanProduct 的目标顺序一一对应。
var productColumns = []string{
	"id",
	"COALESCE(slug, '')",
	"title",
	"COALESCE(tag_line, '')",
	"price",
	"product_code",
	"COALESCE(sortiment, '')",
	"COALESCE(large_image, '')",
	"COALESCE(producer_url, '')",
	"COALESCE(region, '')",
	"COALESCE(vintage, '')",
	"COALESCE(alcohol, 0)",
	"taste",
	"COALESCE(bottle_volume, 0)",
	"COALESCE(composition, '')",
	"COALESCE(closure, '')",
	"vegetables",
	"roasted_vegetables",
	"soft_cheese",
	"hard_cheese",
	"starches",
	"fish",
	"rich_fish",
	"white_meat_poultry",
	"lamb_meat",
	"pork_meat",
	"red_meat_beef",
	"game_meat",
	"cured_meat",
	"sweets",
	"COALESCE(producer_description, '')",
	"COALESCE(additional_info, '')",
	"COALESCE(awards, '')",
	"COALESCE(buy_link, '')",
	"is_new",
	"organic",
	"featured",
	"available_only_online",
	"created_at",
	"updated_at",
}

var selectProduct = "SELECT " + strings.Join(productColumns, ", ") + " FROM products"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.TagLine, &p.Price, &p.ProductCode, &p.Sortiment,
		&p.LargeImage, &p.ProducerURL, &p.Region, &p.Vintage, &p.Alcohol, &p.Taste,
		&p.BottleVolume, &p.Composition, &p.Closure,
		&p.Vegetables, &p.RoastedVegetables, &p.SoftCheese, &p.HardCheese, &p.Starches,
		&p.Fish, &p.RichFish, &p.WhiteMeatPoultry, &p.LambMeat, &p.PorkMeat,
		&p.RedMeatBeef, &p.GameMeat, &p.CuredMeat, &p.Sweets,
		&p.ProducerDescription, &p.AdditionalInfo, &p.Awards, &p.BuyLink,
		&p.IsNew, &p.Organic, &p.Featured, &p.AvailableOnlyOnline,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostgresRepository implements ProductRepository on a *sql.DB.
type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ ProductRepository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *sql.DB, logger *zap.Logger) *PostgresRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresRepository{db: db, logger: logger}
}

// GetBySlug also matches products whose slug column is empty by the slug
// derived from their title.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: empty slug", ErrNotFound)
	}
	p, err := r.queryOne(ctx, selectProduct+" WHERE slug = $1", slug)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return p, err
	}
	return r.findByDerivedSlug(ctx, slug)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	return r.queryOne(ctx, selectProduct+" WHERE id = $1", id)
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, arg any) (*product.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, arg)
	}
	if err != nil {
		r.logger.Error("product query failed", zap.Any("key", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to query product %v: %w", arg, err)
	}
	return p, nil
}

// findByDerivedSlug 处理 slug 列为空的旧数据。
func (r *PostgresRepository) findByDerivedSlug(ctx context.Context, slug string) (*product.Product, error) {
	rows, err := r.db.QueryContext(ctx, selectProduct+" WHERE slug IS NULL OR slug = ''")
	if err != nil {
		return nil, fmt.Errorf("failed to query products without slug: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if product.Slug(p.Title) == slug {
			return p, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
}
