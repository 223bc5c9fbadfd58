// Package viewport keeps the newest rows of a scrolling list visible while
// an on-screen keyboard (or anything else that takes space from the bottom
// of the window) slides in and out, and while the window itself is resized.
package viewport

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
)

const (
	DefaultInputHeight    = 50
	DefaultLayoutDuration = 125 * time.Millisecond
	DefaultHideShortening = 50 * time.Millisecond
)

// Phase is the keyboard phase as seen by the coordinator.
type Phase int

const (
	PhaseHidden Phase = iota
	PhaseShowing
	PhaseShown
	PhaseHiding
)

func (p Phase) String() string {
	switch p {
	case PhaseShowing:
		return "SHOWING"
	case PhaseShown:
		return "SHOWN"
	case PhaseHiding:
		return "HIDING"
	default:
		return "HIDDEN"
	}
}

// Scroller receives scroll commands. Offsets are measured from the top of
// the scrolling content.
type Scroller interface {
	ScrollTo(y float64, animated bool)
	ScrollToEnd(animated bool)
}

// readiness is implemented by scrollers that can be attached before they
// are able to scroll.
type readiness interface {
	Ready() bool
}

type Options struct {
	Platform       Platform
	InputHeight    float64
	LayoutDuration time.Duration
	HideShortening time.Duration
	Easing         Easing
	Now            func() time.Time
	Logger         *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Platform.Name == "" {
		o.Platform = PlatformTerminal
	}
	if o.InputHeight <= 0 {
		o.InputHeight = DefaultInputHeight
	}
	if o.LayoutDuration <= 0 {
		o.LayoutDuration = DefaultLayoutDuration
	}
	if o.HideShortening < 0 {
		o.HideShortening = 0
	} else if o.HideShortening == 0 {
		o.HideShortening = DefaultHideShortening
	}
	if o.Easing == nil {
		o.Easing = EaseInOut
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Coordinator owns the animated container height and turns layout,
// content and keyboard events into scroll commands. It is not safe for
// concurrent use; the owning event loop drives it.
type Coordinator struct {
	opts     Options
	scroller Scroller
	height   *Value

	measured        bool
	containerHeight float64
	offsetBottom    float64
	scrollOffset    float64
	contentHeight   float64

	phase          Phase
	keyboardHeight float64

	listener    ListenerID
	hasListener bool
}

// New returns a coordinator that sends scroll commands to scroller, which
// may be nil until the scrolling surface exists.
func New(opts Options, scroller Scroller) *Coordinator {
	opts = opts.withDefaults()
	return &Coordinator{
		opts:     opts,
		scroller: scroller,
		height:   NewValue(0),
	}
}

// SetScroller replaces the scroll target.
func (c *Coordinator) SetScroller(s Scroller) {
	c.scroller = s
}

func (c *Coordinator) Platform() Platform { return c.opts.Platform }

func (c *Coordinator) Phase() Phase { return c.phase }

// AnimatedHeight is the container height the view should render with.
func (c *Coordinator) AnimatedHeight() float64 { return c.height.Get() }

func (c *Coordinator) ScrollOffset() float64 { return c.scrollOffset }

func (c *Coordinator) ContainerHeight() float64 { return c.containerHeight }

func (c *Coordinator) ContentHeight() float64 { return c.contentHeight }

// KeyboardHeight is the part of the keyboard overlapping the container.
func (c *Coordinator) KeyboardHeight() float64 { return c.keyboardHeight }

func (c *Coordinator) InputHeight() float64 { return c.opts.InputHeight }

func (c *Coordinator) Animating() bool { return c.height.Animating() }

// ListenerCount reports listeners attached to the height value.
func (c *Coordinator) ListenerCount() int { return c.height.ListenerCount() }

func (c *Coordinator) Measured() bool { return c.measured }

func (c *Coordinator) now() time.Time { return c.opts.Now() }

func (c *Coordinator) overflows() bool {
	return c.containerHeight-c.opts.InputHeight < c.contentHeight
}

func (c *Coordinator) timing(d time.Duration) Timing {
	return Timing{Duration: d, Easing: c.opts.Easing, Start: c.now()}
}

// Tick advances the running animation to now and reports whether another
// frame is needed.
func (c *Coordinator) Tick(now time.Time) bool {
	return c.height.Step(now)
}

// Scroll records the scrolling surface's current offset.
func (c *Coordinator) Scroll(offset float64) {
	c.scrollOffset = math.Max(0, offset)
}

// Layout records the container height and the space left below it.
func (c *Coordinator) Layout(height, offsetBottom float64) {
	height = math.Max(0, height)
	if !c.measured {
		c.measured = true
		c.containerHeight = height
		c.offsetBottom = offsetBottom
		c.height.Set(height)
		c.debug("first layout", "height", height, "offsetBottom", offsetBottom)
		return
	}
	if height == c.containerHeight && offsetBottom == c.offsetBottom {
		return
	}

	heightDiff := height - c.containerHeight
	c.containerHeight = height
	c.offsetBottom = offsetBottom
	c.settle()

	target := height
	if c.phase == PhaseShown {
		target = math.Max(0, height-c.keyboardHeight)
	}

	if c.opts.Platform.LayoutTransition == TransitionImmediate {
		c.cancel()
		c.height.Set(target)
		return
	}

	next := c.scrollOffset - heightDiff
	c.cancel()
	c.listen(func(float64) {
		c.scrollTo(next, false)
	})
	c.height.Animate(target, c.timing(c.opts.LayoutDuration), func() {
		c.release()
		c.scrollTo(next, true)
	})
}

// ContentSize records the bottom edge of the scrolling content. When the
// content shrinks while scrolled past its new end the view snaps to the end.
func (c *Coordinator) ContentSize(height float64) {
	prev := c.contentHeight
	c.contentHeight = height
	if height >= prev {
		return
	}
	if height-(c.containerHeight-c.opts.InputHeight) < c.scrollOffset {
		c.scrollToEnd(false)
	}
}

// ItemCreated scrolls to the end so the new row is visible.
func (c *Coordinator) ItemCreated() {
	c.scrollToEnd(true)
}

// KeyboardWillShow starts shrinking the container by the part of the
// keyboard that overlaps it. Repeated show events while showing or shown
// are ignored.
func (c *Coordinator) KeyboardWillShow(height float64, duration time.Duration) {
	if !c.opts.Platform.NativeKeyboardEvents || !c.measured {
		return
	}
	if c.phase == PhaseShowing || c.phase == PhaseShown {
		return
	}

	effective := math.Max(0, height-c.offsetBottom)
	c.keyboardHeight = effective
	c.phase = PhaseShowing
	start := c.scrollOffset
	c.debug("keyboard show", "height", height, "effective", effective, "duration", duration)

	c.cancel()
	c.listen(func(v float64) {
		if c.overflows() {
			c.scrollTo(start+(c.containerHeight-v), false)
			return
		}
		c.scrollToEnd(false)
	})
	c.height.Animate(math.Max(0, c.containerHeight-effective), c.timing(duration), func() {
		c.release()
		c.phase = PhaseShown
	})
}

// KeyboardWillHide grows the container back. The animation runs slightly
// shorter than the keyboard's own so the container never trails behind it.
func (c *Coordinator) KeyboardWillHide(height float64, duration time.Duration) {
	if !c.opts.Platform.NativeKeyboardEvents || !c.measured {
		return
	}
	if c.phase == PhaseHidden || c.phase == PhaseHiding {
		return
	}

	effective := math.Max(0, height-c.offsetBottom)
	c.phase = PhaseHiding
	start := c.scrollOffset
	d := duration - c.opts.HideShortening
	if d < 0 {
		d = 0
	}
	c.debug("keyboard hide", "height", height, "effective", effective, "duration", d)

	c.cancel()
	c.listen(func(v float64) {
		if c.overflows() {
			c.scrollTo(start+(c.containerHeight-v)-effective, false)
			return
		}
		c.scrollToEnd(false)
	})
	c.height.Animate(c.containerHeight, c.timing(d), func() {
		c.release()
		c.phase = PhaseHidden
		c.keyboardHeight = 0
	})
}

// settle moves an in-flight keyboard transition to its end phase. Used when
// a layout change supersedes the keyboard animation.
func (c *Coordinator) settle() {
	switch c.phase {
	case PhaseShowing:
		c.phase = PhaseShown
	case PhaseHiding:
		c.phase = PhaseHidden
		c.keyboardHeight = 0
	}
}

func (c *Coordinator) listen(fn Listener) {
	c.release()
	c.listener = c.height.AddListener(fn)
	c.hasListener = true
}

func (c *Coordinator) release() {
	if !c.hasListener {
		return
	}
	c.height.RemoveListener(c.listener)
	c.hasListener = false
}

func (c *Coordinator) cancel() {
	c.height.Stop()
	c.release()
}

func (c *Coordinator) ready() bool {
	if c.scroller == nil || !c.measured {
		return false
	}
	if r, ok := c.scroller.(readiness); ok && !r.Ready() {
		return false
	}
	return true
}

func (c *Coordinator) scrollTo(y float64, animated bool) {
	if !c.ready() {
		c.debug("scroll dropped", "y", y)
		return
	}
	c.scroller.ScrollTo(math.Max(0, y), animated)
}

func (c *Coordinator) scrollToEnd(animated bool) {
	if !c.ready() {
		c.debug("scroll to end dropped")
		return
	}
	c.scroller.ScrollToEnd(animated)
}

func (c *Coordinator) debug(msg string, kv ...interface{}) {
	if l := c.opts.Logger; l != nil {
		l.Debug(msg, kv...)
	}
}
