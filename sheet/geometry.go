package sheet

import "github.com/ByLCY/winesheet/layout"

// Geometry is fixed for the life of one document. All values are mm.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	// LeftColumnWidth is the box the product image is centred in.
	LeftColumnWidth float64
	// ColumnOffset is the distance from the margin to the right column.
	ColumnOffset float64

	ImageMaxWidth       float64
	ImageMaxHeight      float64
	ImageFallbackHeight float64
	BadgeWidth          float64
	BadgeTextWidth      float64
}

// A4 returns the portrait A4 geometry with 20 mm margins.
func A4() Geometry {
	return Geometry{
		PageWidth:           210,
		PageHeight:          297,
		Margin:              20,
		LeftColumnWidth:     65,
		ColumnOffset:        70,
		ImageMaxWidth:       60,
		ImageMaxHeight:      100,
		ImageFallbackHeight: 80,
		BadgeWidth:          60,
		BadgeTextWidth:      55,
	}
}

func (g Geometry) ContentWidth() float64 { return g.PageWidth - 2*g.Margin }

func (g Geometry) RightX() float64 { return g.Margin + g.ColumnOffset }

func (g Geometry) RightWidth() float64 { return g.ContentWidth() - g.ColumnOffset }

// Top is where the cursor starts on every page.
func (g Geometry) Top() float64 { return g.Margin }

// RemainingSpace is the vertical room left between cursor and the bottom margin.
func (g Geometry) RemainingSpace(cursor float64) float64 {
	return MeasureRemainingSpace(cursor, g.PageHeight, g.Margin)
}

func (g Geometry) layoutMargin() layout.Margin {
	return layout.Margin{Top: g.Margin, Right: g.Margin, Bottom: g.Margin, Left: g.Margin}
}

// MeasureRemainingSpace returns pageHeight - margin - cursor.
func MeasureRemainingSpace(cursor, pageHeight, margin float64) float64 {
	return pageHeight - margin - cursor
}
