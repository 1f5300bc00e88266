package sheet

import (
	"go.uber.org/zap"

	"github.com/ByLCY/winesheet/layout"
)

// PageState is the paginator's state. PageBreak only lasts for the
// duration of a single EnsureSpace call.
type PageState int

const (
	OnPage PageState = iota
	PageBreak
)

func (s PageState) String() string {
	switch s {
	case OnPage:
		return "OnPage"
	case PageBreak:
		return "PageBreak"
	default:
		return "unknown"
	}
}

// Break records one inserted page.
type Break struct {
	Section   string
	Page      int // 新页的页码，从 1 开始
	Cursor    float64
	Remaining float64
}

// Paginator 在长文本区块之前检查剩余空间，不足时换页并把游标重置到上边距。
type Paginator struct {
	canvas layout.Canvas
	geo    Geometry
	logger *zap.Logger
	state  PageState
	breaks []Break
}

func NewPaginator(c layout.Canvas, geo Geometry, logger *zap.Logger) *Paginator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Paginator{canvas: c, geo: geo, logger: logger}
}

func (p *Paginator) State() PageState { return p.state }

// EnsureSpace returns cursor unchanged when at least min mm remain on the
// page, otherwise it adds a page and returns the top margin.
func (p *Paginator) EnsureSpace(section string, cursor, min float64) float64 {
	remaining := p.geo.RemainingSpace(cursor)
	if remaining >= min {
		return cursor
	}

	p.state = PageBreak
	p.canvas.AddPage()
	b := Break{Section: section, Page: p.canvas.PageCount(), Cursor: cursor, Remaining: remaining}
	p.breaks = append(p.breaks, b)
	p.logger.Debug("page break",
		zap.String("section", section),
		zap.Int("page", b.Page),
		zap.Float64("cursor", cursor),
		zap.Float64("remaining", remaining),
		zap.Float64("min", min),
	)
	p.state = OnPage
	return p.geo.Top()
}

// Breaks returns the breaks inserted so far, in order.
func (p *Paginator) Breaks() []Break {
	out := make([]Break, len(p.breaks))
	copy(out, p.breaks)
	return out
}
