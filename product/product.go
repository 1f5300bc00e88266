// Package product holds the wine product record the sheet generator reads.
package product

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidProduct is returned by Validate when a required field is missing.
var ErrInvalidProduct = errors.New("invalid product")

// Product is a read-only projection of a catalogue row.
type Product struct {
	ID          int64               `json:"id"`
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	TagLine     string              `json:"tagLine"`
	Price       decimal.NullDecimal `json:"price"`
	ProductCode string              `json:"productCode"`
	Sortiment   string              `json:"sortiment"`
	LargeImage  string              `json:"largeImage"`
	ProducerURL string              `json:"producerUrl"`
	Region      string              `json:"region"`
	Vintage     string              `json:"vintage"`
	Alcohol     float64             `json:"alcohol"`
	Taste       Taste               `json:"taste"`

	BottleVolume float64 `json:"bottleVolume"`
	Composition  string  `json:"composition"`
	Closure      string  `json:"closure"`

	Vegetables        bool `json:"vegetables"`
	RoastedVegetables bool `json:"roastedVegetables"`
	SoftCheese        bool `json:"softCheese"`
	HardCheese        bool `json:"hardCheese"`
	Starches          bool `json:"starches"`
	Fish              bool `json:"fish"`
	RichFish          bool `json:"richFish"`
	WhiteMeatPoultry  bool `json:"whiteMeatPoultry"`
	LambMeat          bool `json:"lambMeat"`
	PorkMeat          bool `json:"porkMeat"`
	RedMeatBeef       bool `json:"redMeatBeef"`
	GameMeat          bool `json:"gameMeat"`
	CuredMeat         bool `json:"curedMeat"`
	Sweets            bool `json:"sweets"`

	ProducerDescription string `json:"producerDescription"`
	AdditionalInfo      string `json:"additionalInfo"`
	Awards              string `json:"awards"`
	BuyLink             string `json:"buyLink"`

	IsNew               bool `json:"isNew"`
	Organic             bool `json:"organic"`
	Featured            bool `json:"featured"`
	AvailableOnlyOnline bool `json:"availableOnlyOnline"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the fields a product sheet cannot be drawn without.
func (p *Product) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil product", ErrInvalidProduct)
	}
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidProduct)
	}
	if p.ProductCode == "" {
		return fmt.Errorf("%w: product code is required", ErrInvalidProduct)
	}
	if !p.Price.Valid {
		return fmt.Errorf("%w: price is required", ErrInvalidProduct)
	}
	if p.Price.Decimal.IsNegative() {
		return fmt.Errorf("%w: price %s is negative", ErrInvalidProduct, p.Price.Decimal)
	}
	return nil
}

// FormattedPrice renders the price as "€12.50".
func (p *Product) FormattedPrice() string {
	return "€" + p.Price.Decimal.StringFixed(2)
}

// SheetSlug returns the stored slug or derives one from the title.
func (p *Product) SheetSlug() string {
	if p.Slug != "" {
		return p.Slug
	}
	return Slug(p.Title)
}
