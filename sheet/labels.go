package sheet

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ByLCY/winesheet/binding"
	"github.com/ByLCY/winesheet/product"
)

// Labels holds every user-visible string on a sheet. Templates use
// ${name} placeholders filled through binding.Interpolate.
type Labels struct {
	Locale string

	QuickFacts          string
	Taste               string
	WineDetails         string
	Pairings            string
	ProducerDescription string
	AdditionalInfo      string
	Awards              string

	Producer         string
	ProducerFallback string
	Region           string
	Vintage          string
	Alcohol          string
	Volume           string
	Composition      string
	Closure          string

	CodeTemplate      string
	BuyLink           string
	GeneratedTemplate string
	DateLayout        string
	SubjectTemplate   string

	PairingNames map[product.PairingKey]string
	BadgeNames   map[product.BadgeKey]string

	// Shown by callers while a download is in flight and when it fails.
	Busy             string
	GenerationFailed string
}

// Finnish is the default catalogue language.
func Finnish() Labels {
	return Labels{
		Locale:              "fi",
		QuickFacts:          "Tuotetiedot",
		Taste:               "Makuprofiili",
		WineDetails:         "Viinin tiedot",
		Pairings:            "Ruokayhdistelmät",
		ProducerDescription: "Tietoa tuottajasta",
		AdditionalInfo:      "Lisätietoja",
		Awards:              "Palkinnot",
		Producer:            "Tuottaja:",
		ProducerFallback:    "Tuottaja",
		Region:              "Alue:",
		Vintage:             "Vuosikerta:",
		Alcohol:             "Alkoholi:",
		Volume:              "Tilavuus:",
		Composition:         "Koostumus:",
		Closure:             "Sulkija:",
		CodeTemplate:        "Koodi: ${code}",
		BuyLink:             "Osta tämä viini →",
		GeneratedTemplate:   "Luotu: ${date}",
		DateLayout:          "2.1.2006",
		SubjectTemplate:     "${title} - Wine Product Information",
		PairingNames: map[product.PairingKey]string{
			product.PairingVegetables:        "Vihannekset",
			product.PairingRoastedVegetables: "Paahdetut vihannekset",
			product.PairingSoftCheese:        "Pehmeä juusto",
			product.PairingHardCheese:        "Kova juusto",
			product.PairingStarches:          "Tärkkelys",
			product.PairingFish:              "Kala",
			product.PairingRichFish:          "Rasvainen kala",
			product.PairingWhiteMeatPoultry:  "Valkoinen liha/Siipikarja",
			product.PairingLambMeat:          "Lammas",
			product.PairingPorkMeat:          "Sianliha",
			product.PairingRedMeatBeef:       "Punainen liha/Naudanliha",
			product.PairingGameMeat:          "Riistaliha",
			product.PairingCuredMeat:         "Suolattu liha",
			product.PairingSweets:            "Makeiset",
		},
		BadgeNames: map[product.BadgeKey]string{
			product.BadgeNew:        "Uusi",
			product.BadgeOrganic:    "Luomu",
			product.BadgeFeatured:   "Suositeltu",
			product.BadgeOnlineOnly: "Vain verkossa",
		},
		Busy:             "Luodaan PDF...",
		GenerationFailed: "Virhe PDF:n luomisessa. Yritä uudelleen.",
	}
}

// English is used for the in-english pages of the site.
func English() Labels {
	return Labels{
		Locale:              "en",
		QuickFacts:          "Product details",
		Taste:               "Taste profile",
		WineDetails:         "Wine details",
		Pairings:            "Food pairings",
		ProducerDescription: "About the producer",
		AdditionalInfo:      "Additional information",
		Awards:              "Awards",
		Producer:            "Producer:",
		ProducerFallback:    "Producer",
		Region:              "Region:",
		Vintage:             "Vintage:",
		Alcohol:             "Alcohol:",
		Volume:              "Volume:",
		Composition:         "Grapes:",
		Closure:             "Closure:",
		CodeTemplate:        "Code: ${code}",
		BuyLink:             "Buy this wine →",
		GeneratedTemplate:   "Generated: ${date}",
		DateLayout:          "1/2/2006",
		SubjectTemplate:     "${title} - Wine Product Information",
		PairingNames: map[product.PairingKey]string{
			product.PairingVegetables:        "Vegetables",
			product.PairingRoastedVegetables: "Roasted vegetables",
			product.PairingSoftCheese:        "Soft cheese",
			product.PairingHardCheese:        "Hard cheese",
			product.PairingStarches:          "Starches",
			product.PairingFish:              "Fish",
			product.PairingRichFish:          "Rich fish",
			product.PairingWhiteMeatPoultry:  "White meat/Poultry",
			product.PairingLambMeat:          "Lamb",
			product.PairingPorkMeat:          "Pork",
			product.PairingRedMeatBeef:       "Red meat/Beef",
			product.PairingGameMeat:          "Game",
			product.PairingCuredMeat:         "Cured meat",
			product.PairingSweets:            "Sweets",
		},
		BadgeNames: map[product.BadgeKey]string{
			product.BadgeNew:        "New",
			product.BadgeOrganic:    "Organic",
			product.BadgeFeatured:   "Featured",
			product.BadgeOnlineOnly: "Online only",
		},
		Busy:             "Generating PDF...",
		GenerationFailed: "Error generating document, please try again.",
	}
}

// LabelsFor returns the labels for a locale tag such as "fi", "fi-FI" or "en".
func LabelsFor(locale string) (Labels, error) {
	tag := strings.ToLower(strings.TrimSpace(locale))
	tag, _, _ = strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
	switch tag {
	case "", "fi":
		return Finnish(), nil
	case "en":
		return English(), nil
	default:
		return Labels{}, fmt.Errorf("unsupported locale %q", locale)
	}
}

// templateFields lists the placeholders each template may reference.
var templateFields = []struct {
	name    string
	text    func(Labels) string
	allowed []string
}{
	{"code", func(l Labels) string { return l.CodeTemplate }, []string{"code"}},
	{"generated", func(l Labels) string { return l.GeneratedTemplate }, []string{"date"}},
	{"subject", func(l Labels) string { return l.SubjectTemplate }, []string{"title"}},
}

// Validate reports templates that reference a placeholder nothing fills.
func (l Labels) Validate() error {
	for _, f := range templateFields {
		for _, name := range binding.Placeholders(f.text(l)) {
			if !slices.Contains(f.allowed, name) {
				return fmt.Errorf("labels %s: %s template uses unknown placeholder %q", l.Locale, f.name, name)
			}
		}
	}
	return nil
}

// PairingLabels maps pairing keys to display names, keeping their order.
func (l Labels) PairingLabels(keys []product.PairingKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if name, ok := l.PairingNames[k]; ok {
			out = append(out, name)
		}
	}
	return out
}

// BadgeLabels maps badge keys to display names, keeping their order.
func (l Labels) BadgeLabels(keys []product.BadgeKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if name, ok := l.BadgeNames[k]; ok {
			out = append(out, name)
		}
	}
	return out
}

// CodeLine renders "<sortiment> • Koodi: <code>", dropping the sortiment
// segment when it is empty.
func (l Labels) CodeLine(sortiment, code string) string {
	text := binding.Interpolate(l.CodeTemplate, map[string]string{"code": code})
	if strings.TrimSpace(sortiment) == "" {
		return text
	}
	return sortiment + " • " + text
}

// Generated renders the footer stamp for t.
func (l Labels) Generated(t time.Time) string {
	return binding.Interpolate(l.GeneratedTemplate, map[string]string{"date": t.Format(l.DateLayout)})
}

// Subject renders the document subject for a product title.
func (l Labels) Subject(title string) string {
	return binding.Interpolate(l.SubjectTemplate, map[string]string{"title": title})
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
