package canvasrenderer

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/textnode/layout"
)

// Surface adapts a *canvas.Context to layout.Surface. Push/Pop wrap the
// context's own state stack and additionally save the smoothing flags, which
// the vector backends have no notion of.
type Surface struct {
	ctx *canvas.Context

	// Foreground colours runs that take their colour from the surface.
	Foreground layout.Color

	antialias     bool
	fontSmoothing bool
	stack         []surfaceState
}

type surfaceState struct {
	antialias     bool
	fontSmoothing bool
	foreground    layout.Color
}

var _ layout.Surface = (*Surface)(nil)

// NewSurface wraps ctx. Antialiasing and font smoothing start enabled.
func NewSurface(ctx *canvas.Context) *Surface {
	return &Surface{
		ctx:           ctx,
		Foreground:    defaultForeground,
		antialias:     true,
		fontSmoothing: true,
	}
}

func (s *Surface) Push() {
	if s.ctx != nil {
		s.ctx.Push()
	}
	s.stack = append(s.stack, surfaceState{
		antialias:     s.antialias,
		fontSmoothing: s.fontSmoothing,
		foreground:    s.Foreground,
	})
}

func (s *Surface) Pop() {
	if len(s.stack) == 0 {
		return
	}
	if s.ctx != nil {
		s.ctx.Pop()
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.antialias = top.antialias
	s.fontSmoothing = top.fontSmoothing
	s.Foreground = top.foreground
}

func (s *Surface) SetAntialias(on bool)     { s.antialias = on }
func (s *Surface) SetFontSmoothing(on bool) { s.fontSmoothing = on }

// Antialias reports the current antialiasing flag.
func (s *Surface) Antialias() bool { return s.antialias }

// FontSmoothing reports the current font smoothing flag.
func (s *Surface) FontSmoothing() bool { return s.fontSmoothing }

// Depth returns the number of unmatched Push calls.
func (s *Surface) Depth() int { return len(s.stack) }
