package sheet

import (
	"slices"
	"testing"
	"time"

	"github.com/ByLCY/winesheet/product"
)

func TestLabelsFor(t *testing.T) {
	for tag, want := range map[string]string{"": "fi", "fi": "fi", "fi-FI": "fi", "en_US": "en", " EN ": "en"} {
		l, err := LabelsFor(tag)
		if err != nil || l.Locale != want {
			t.Errorf("LabelsFor(%q) = %q, %v", tag, l.Locale, err)
		}
	}
	if _, err := LabelsFor("de"); err == nil {
		t.Fatalf("不支持的语言应返回错误")
	}
}

func TestEveryPairingAndBadgeHasALabel(t *testing.T) {
	for _, l := range []Labels{Finnish(), English()} {
		if got := l.PairingLabels(product.AllPairings()); len(got) != 14 {
			t.Fatalf("%s: 期望 14 个搭配标签，得到 %d", l.Locale, len(got))
		}
		badges := []product.BadgeKey{product.BadgeNew, product.BadgeOrganic, product.BadgeFeatured, product.BadgeOnlineOnly}
		if got := l.BadgeLabels(badges); len(got) != 4 {
			t.Fatalf("%s: 期望 4 个徽章标签，得到 %d", l.Locale, len(got))
		}
	}
}

func TestPairingLabelsFollowDeclaredOrder(t *testing.T) {
	p := &product.Product{Sweets: true, LambMeat: true, Fish: true}
	got := English().PairingLabels(product.FoodPairings(p))
	if want := []string{"Fish", "Lamb", "Sweets"}; !slices.Equal(got, want) {
		t.Fatalf("期望 %q，得到 %q", want, got)
	}
	got = Finnish().BadgeLabels(product.Badges(&product.Product{AvailableOnlyOnline: true, IsNew: true}))
	if want := []string{"Uusi", "Vain verkossa"}; !slices.Equal(got, want) {
		t.Fatalf("期望 %q，得到 %q", want, got)
	}
}

func TestLabelTemplates(t *testing.T) {
	fi, en := Finnish(), English()
	if got := fi.CodeLine("", "AB123"); got != "Koodi: AB123" {
		t.Fatalf("CodeLine = %q", got)
	}
	if got := en.CodeLine("Special order", "AB123"); got != "Special order • Code: AB123" {
		t.Fatalf("CodeLine = %q", got)
	}
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := fi.Generated(day); got != "Luotu: 4.3.2025" {
		t.Fatalf("Generated = %q", got)
	}
	if got := en.Generated(day); got != "Generated: 3/4/2025" {
		t.Fatalf("Generated = %q", got)
	}
	if got := en.Subject("Rioja"); got != "Rioja - Wine Product Information" {
		t.Fatalf("Subject = %q", got)
	}
}

func TestLabelsValidate(t *testing.T) {
	for _, l := range []Labels{Finnish(), English()} {
		if err := l.Validate(); err != nil {
			t.Fatalf("%s: %v", l.Locale, err)
		}
	}
	broken := English()
	broken.SubjectTemplate = "${title} (${vintage})"
	if err := broken.Validate(); err == nil {
		t.Fatal("期望未知占位符报错")
	}
	if _, err := NewGenerator(&stubRenderer{}, WithLabels(broken)); err == nil {
		t.Fatal("NewGenerator 应拒绝无效的标签模板")
	}
}
