package theme_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/winesheet/layout"
	"github.com/ByLCY/winesheet/theme"
)

const sampleTheme = `
theme Night v2 {
  meta {
    author: "Viinitalo Oy"
  }
  colors {
    accent: #0F62FE; muted: #999
  }
  sizes {
    title: 24
    body: 3.5mm
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := theme.ParseString(sampleTheme)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Night" || doc.Version != "v2" {
		t.Fatalf("unexpected header %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	colors := doc.Sections[1]
	if colors.Kind != "colors" || len(colors.Block.Assignments) != 2 {
		t.Fatalf("unexpected colors section: %+v", colors)
	}
	if got := colors.Block.Assignments[1].Value.Raw(); got != "#999" {
		t.Fatalf("expected #999, got %s", got)
	}
}

func TestDefaultTheme(t *testing.T) {
	th := theme.Default()
	if th.Accent != (layout.Color{R: 224, G: 148, B: 78}) {
		t.Fatalf("unexpected accent %+v", th.Accent)
	}
	if th.Heading != (layout.Color{R: 29, G: 41, B: 57}) {
		t.Fatalf("unexpected heading %+v", th.Heading)
	}
	if th.TitleSize != 20 || th.BodySize != 9 || th.Rule != 0.5 {
		t.Fatalf("unexpected sizes %+v", th)
	}
	if th.Author != "Wine Store" || th.Creator != "Wine Store PDF Generator" {
		t.Fatalf("unexpected meta %q %q", th.Author, th.Creator)
	}
}

func TestOverridesKeepDefaults(t *testing.T) {
	th, err := theme.FromString(sampleTheme)
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	if th.Name != "Night" || th.Author != "Viinitalo Oy" {
		t.Fatalf("meta not applied: %+v", th)
	}
	if th.Creator != "Wine Store PDF Generator" {
		t.Fatalf("creator default lost: %q", th.Creator)
	}
	if th.Accent != (layout.Color{R: 15, G: 98, B: 254}) || th.Muted != (layout.Color{R: 153, G: 153, B: 153}) {
		t.Fatalf("colors not applied: %+v %+v", th.Accent, th.Muted)
	}
	if th.TitleSize != 24 {
		t.Fatalf("title size: %g", th.TitleSize)
	}
	if diff := math.Abs(th.BodySize - 3.5*layout.MmToPt); diff > 1e-9 {
		t.Fatalf("body size: %g", th.BodySize)
	}
	if th.PriceSize != 18 {
		t.Fatalf("price default lost: %g", th.PriceSize)
	}
}

func TestUnknownKeysAreErrors(t *testing.T) {
	for _, src := range []string{
		`theme X v1 { colors { sparkle: #fff } }`,
		`theme X v1 { sizes { title: 0 } }`,
		`theme X v1 { meta { owner: "me" } }`,
	} {
		if _, err := theme.FromString(src); err == nil {
			t.Fatalf("expected error for %s", src)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "night.theme")
	if err := os.WriteFile(path, []byte(sampleTheme), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	th, err := theme.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if th.Name != "Night" {
		t.Fatalf("unexpected name %s", th.Name)
	}
	if _, err := theme.Load(filepath.Join(t.TempDir(), "missing.theme")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
