package product

// PairingKey names one of the fixed food-pairing flags.
type PairingKey string

const (
	PairingVegetables        PairingKey = "vegetables"
	PairingRoastedVegetables PairingKey = "roastedVegetables"
	PairingSoftCheese        PairingKey = "softCheese"
	PairingHardCheese        PairingKey = "hardCheese"
	PairingStarches          PairingKey = "starches"
	PairingFish              PairingKey = "fish"
	PairingRichFish          PairingKey = "richFish"
	PairingWhiteMeatPoultry  PairingKey = "whiteMeatPoultry"
	PairingLambMeat          PairingKey = "lambMeat"
	PairingPorkMeat          PairingKey = "porkMeat"
	PairingRedMeatBeef       PairingKey = "redMeatBeef"
	PairingGameMeat          PairingKey = "gameMeat"
	PairingCuredMeat         PairingKey = "curedMeat"
	PairingSweets            PairingKey = "sweets"
)

var pairingOrder = []struct {
	key PairingKey
	set func(*Product) bool
}{
	{PairingVegetables, func(p *Product) bool { return p.Vegetables }},
	{PairingRoastedVegetables, func(p *Product) bool { return p.RoastedVegetables }},
	{PairingSoftCheese, func(p *Product) bool { return p.SoftCheese }},
	{PairingHardCheese, func(p *Product) bool { return p.HardCheese }},
	{PairingStarches, func(p *Product) bool { return p.Starches }},
	{PairingFish, func(p *Product) bool { return p.Fish }},
	{PairingRichFish, func(p *Product) bool { return p.RichFish }},
	{PairingWhiteMeatPoultry, func(p *Product) bool { return p.WhiteMeatPoultry }},
	{PairingLambMeat, func(p *Product) bool { return p.LambMeat }},
	{PairingPorkMeat, func(p *Product) bool { return p.PorkMeat }},
	{PairingRedMeatBeef, func(p *Product) bool { return p.RedMeatBeef }},
	{PairingGameMeat, func(p *Product) bool { return p.GameMeat }},
	{PairingCuredMeat, func(p *Product) bool { return p.CuredMeat }},
	{PairingSweets, func(p *Product) bool { return p.Sweets }},
}

// AllPairings lists every pairing key in display order.
func AllPairings() []PairingKey {
	keys := make([]PairingKey, len(pairingOrder))
	for i, entry := range pairingOrder {
		keys[i] = entry.key
	}
	return keys
}

// FoodPairings returns the set flags in display order, regardless of the
// order they were set in.
func FoodPairings(p *Product) []PairingKey {
	var keys []PairingKey
	for _, entry := range pairingOrder {
		if entry.set(p) {
			keys = append(keys, entry.key)
		}
	}
	return keys
}

// BadgeKey names a marketing badge shown under the product image.
type BadgeKey string

const (
	BadgeNew        BadgeKey = "new"
	BadgeOrganic    BadgeKey = "organic"
	BadgeFeatured   BadgeKey = "featured"
	BadgeOnlineOnly BadgeKey = "onlineOnly"
)

// Badges returns the product's badges in display order.
func Badges(p *Product) []BadgeKey {
	var keys []BadgeKey
	if p.IsNew {
		keys = append(keys, BadgeNew)
	}
	if p.Organic {
		keys = append(keys, BadgeOrganic)
	}
	if p.Featured {
		keys = append(keys, BadgeFeatured)
	}
	if p.AvailableOnlyOnline {
		keys = append(keys, BadgeOnlineOnly)
	}
	return keys
}
