package tui

import (
	"math"

	bv "github.com/charmbracelet/bubbles/viewport"
)

type scrollCmd struct {
	toEnd bool
	y     float64
}

// deferredScroller queues coordinator scroll commands until the bubbles
// viewport has been resized for the current frame. Cells cannot scroll
// smoothly, so animated commands land immediately.
type deferredScroller struct {
	ready   bool
	pending []scrollCmd
}

func (s *deferredScroller) ScrollTo(y float64, _ bool) {
	s.pending = append(s.pending, scrollCmd{y: y})
}

func (s *deferredScroller) ScrollToEnd(_ bool) {
	s.pending = append(s.pending, scrollCmd{toEnd: true})
}

func (s *deferredScroller) Ready() bool {
	return s.ready
}

func (s *deferredScroller) apply(vp *bv.Model) {
	for _, c := range s.pending {
		if c.toEnd {
			vp.GotoBottom()
			continue
		}
		vp.SetYOffset(int(math.Round(c.y)))
	}
	s.pending = s.pending[:0]
}
