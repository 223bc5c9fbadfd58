package viewport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scrollCall struct {
	end      bool
	y        float64
	animated bool
}

type fakeScroller struct {
	calls    []scrollCall
	notReady bool
}

func (f *fakeScroller) ScrollTo(y float64, animated bool) {
	f.calls = append(f.calls, scrollCall{y: y, animated: animated})
}

func (f *fakeScroller) ScrollToEnd(animated bool) {
	f.calls = append(f.calls, scrollCall{end: true, animated: animated})
}

func (f *fakeScroller) Ready() bool { return !f.notReady }

func (f *fakeScroller) last() scrollCall {
	if len(f.calls) == 0 {
		return scrollCall{}
	}
	return f.calls[len(f.calls)-1]
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

func newTestCoordinator(p Platform) (*Coordinator, *fakeScroller, *clock) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	s := &fakeScroller{}
	c := New(Options{Platform: p, Now: clk.now}, s)
	return c, s, clk
}

// finish drives frames until the running animation settles.
func finish(t *testing.T, c *Coordinator, clk *clock) {
	t.Helper()
	for i := 0; i < 1000 && c.Animating(); i++ {
		c.Tick(clk.advance(16 * time.Millisecond))
	}
	require.False(t, c.Animating(), "animation did not settle")
}

func TestShowThenHideRestoresHeight(t *testing.T) {
	c, _, clk := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	assert.Equal(t, 600.0, c.AnimatedHeight())

	c.KeyboardWillShow(300, 250*time.Millisecond)
	assert.Equal(t, PhaseShowing, c.Phase())
	finish(t, c, clk)
	assert.Equal(t, PhaseShown, c.Phase())
	assert.Equal(t, 300.0, c.AnimatedHeight())
	assert.Equal(t, 0, c.ListenerCount())

	c.KeyboardWillHide(300, 250*time.Millisecond)
	assert.Equal(t, PhaseHiding, c.Phase())
	finish(t, c, clk)
	assert.Equal(t, PhaseHidden, c.Phase())
	assert.Equal(t, 600.0, c.AnimatedHeight())
	assert.Equal(t, 0, c.ListenerCount())
}

func TestShowSubtractsSafeAreaOffset(t *testing.T) {
	c, _, clk := newTestCoordinator(PlatformIOS)
	c.Layout(600, 50)
	c.KeyboardWillShow(300, 250*time.Millisecond)
	finish(t, c, clk)
	assert.Equal(t, 350.0, c.AnimatedHeight())
	assert.Equal(t, 250.0, c.KeyboardHeight())
}

func TestDuplicateShowIsIgnored(t *testing.T) {
	c, _, clk := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.KeyboardWillShow(300, 250*time.Millisecond)
	finish(t, c, clk)

	c.KeyboardWillShow(300, 250*time.Millisecond)
	assert.False(t, c.Animating())
	assert.Equal(t, PhaseShown, c.Phase())
	assert.Equal(t, 0, c.ListenerCount())
	assert.Equal(t, 300.0, c.AnimatedHeight())
}

func TestShowWhileShowingKeepsSingleListener(t *testing.T) {
	c, _, clk := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.KeyboardWillShow(300, 250*time.Millisecond)
	c.Tick(clk.advance(16 * time.Millisecond))
	c.KeyboardWillShow(300, 250*time.Millisecond)
	assert.Equal(t, 1, c.ListenerCount())
	finish(t, c, clk)
	assert.Equal(t, 0, c.ListenerCount())
}

func TestHideWhileHiddenIsIgnored(t *testing.T) {
	c, _, _ := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.KeyboardWillHide(300, 250*time.Millisecond)
	assert.Equal(t, PhaseHidden, c.Phase())
	assert.False(t, c.Animating())
}

func TestHideSupersedesShow(t *testing.T) {
	c, _, clk := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.KeyboardWillShow(300, 250*time.Millisecond)
	c.Tick(clk.advance(48 * time.Millisecond))

	c.KeyboardWillHide(300, 250*time.Millisecond)
	assert.Equal(t, PhaseHiding, c.Phase())
	assert.Equal(t, 1, c.ListenerCount())
	finish(t, c, clk)
	assert.Equal(t, PhaseHidden, c.Phase())
	assert.Equal(t, 600.0, c.AnimatedHeight())
	assert.Equal(t, 0, c.ListenerCount())
}

func TestHideShorterThanFiftyMillisCompletesImmediately(t *testing.T) {
	c, _, clk := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.KeyboardWillShow(300, 250*time.Millisecond)
	finish(t, c, clk)

	c.KeyboardWillHide(300, 30*time.Millisecond)
	assert.False(t, c.Animating())
	assert.Equal(t, PhaseHidden, c.Phase())
	assert.Equal(t, 600.0, c.AnimatedHeight())
	assert.Equal(t, 0, c.ListenerCount())
}

func TestLayoutAnimationSupersededByShowLeavesOneListener(t *testing.T) {
	c, _, clk := newTestCoordinator(PlatformTerminal)
	c.Layout(600, 0)
	c.Layout(500, 0)
	require.True(t, c.Animating())
	assert.Equal(t, 1, c.ListenerCount())

	c.Tick(clk.advance(16 * time.Millisecond))
	c.KeyboardWillShow(300, 250*time.Millisecond)
	assert.Equal(t, 1, c.ListenerCount())

	finish(t, c, clk)
	assert.Equal(t, 0, c.ListenerCount())
	assert.Equal(t, 200.0, c.AnimatedHeight())
}

func TestImmediateLayoutSetsHeight(t *testing.T) {
	c, s, _ := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.Layout(400, 0)
	assert.False(t, c.Animating())
	assert.Equal(t, 400.0, c.AnimatedHeight())
	assert.Empty(t, s.calls)
}

func TestAnimatedLayoutRescrollsEachFrame(t *testing.T) {
	c, s, clk := newTestCoordinator(PlatformAndroid)
	c.Layout(600, 0)
	c.Scroll(400)
	c.Layout(350, 0)
	require.True(t, c.Animating())

	c.Tick(clk.advance(16 * time.Millisecond))
	assert.Equal(t, scrollCall{y: 650}, s.last())

	finish(t, c, clk)
	assert.Equal(t, 350.0, c.AnimatedHeight())
	assert.Equal(t, scrollCall{y: 650, animated: true}, s.last())
	assert.Equal(t, 0, c.ListenerCount())
}

func TestLayoutWhileKeyboardShownKeepsKeyboardSubtracted(t *testing.T) {
	c, _, clk := newTestCoordinator(PlatformTerminal)
	c.Layout(600, 0)
	c.KeyboardWillShow(200, 100*time.Millisecond)
	finish(t, c, clk)

	c.Layout(500, 0)
	finish(t, c, clk)
	assert.Equal(t, 300.0, c.AnimatedHeight())
	assert.Equal(t, PhaseShown, c.Phase())
}

func TestAndroidIgnoresKeyboardEvents(t *testing.T) {
	c, _, _ := newTestCoordinator(PlatformAndroid)
	c.Layout(600, 0)
	c.KeyboardWillShow(300, 250*time.Millisecond)
	assert.Equal(t, PhaseHidden, c.Phase())
	assert.False(t, c.Animating())
}

func TestShowScrollsByShrinkWhenContentOverflows(t *testing.T) {
	c, s, clk := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.ContentSize(1000)
	c.Scroll(100)

	c.KeyboardWillShow(300, 250*time.Millisecond)
	finish(t, c, clk)
	assert.Equal(t, scrollCall{y: 400}, s.last())
}

func TestShowScrollsToEndWhenContentFits(t *testing.T) {
	c, s, clk := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.ContentSize(200)

	c.KeyboardWillShow(300, 250*time.Millisecond)
	finish(t, c, clk)
	require.NotEmpty(t, s.calls)
	assert.Equal(t, scrollCall{end: true}, s.last())
}

func TestHideScrollsBackUp(t *testing.T) {
	c, s, clk := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.ContentSize(1000)
	c.KeyboardWillShow(300, 250*time.Millisecond)
	finish(t, c, clk)

	c.Scroll(500)
	c.KeyboardWillHide(300, 250*time.Millisecond)
	finish(t, c, clk)
	assert.Equal(t, scrollCall{y: 200}, s.last())
}

func TestContentShrinkWithOverscrollScrollsToEnd(t *testing.T) {
	c, s, _ := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.ContentSize(1400)
	c.Scroll(700)

	c.ContentSize(1300)
	assert.Empty(t, s.calls, "still within range")

	c.ContentSize(900)
	assert.Equal(t, []scrollCall{{end: true}}, s.calls)
}

func TestContentGrowthLeavesScrollAlone(t *testing.T) {
	c, s, _ := newTestCoordinator(PlatformIOS)
	c.Layout(600, 0)
	c.Scroll(300)
	c.ContentSize(400)
	c.ContentSize(900)
	assert.Empty(t, s.calls)
}

func TestCommandsDroppedWithoutReadyScroller(t *testing.T) {
	c, _, clk := newTestCoordinator(PlatformIOS)
	c.SetScroller(nil)
	c.Layout(600, 0)
	c.ContentSize(1000)
	assert.NotPanics(t, func() {
		c.ItemCreated()
		c.KeyboardWillShow(300, 250*time.Millisecond)
		finish(t, c, clk)
	})

	s := &fakeScroller{notReady: true}
	c.SetScroller(s)
	c.ItemCreated()
	c.ContentSize(10)
	assert.Empty(t, s.calls)

	s.notReady = false
	c.ItemCreated()
	assert.Equal(t, []scrollCall{{end: true, animated: true}}, s.calls)
}

func TestKeyboardBeforeFirstLayoutIsDropped(t *testing.T) {
	c, s, _ := newTestCoordinator(PlatformIOS)
	c.KeyboardWillShow(300, 250*time.Millisecond)
	c.ItemCreated()
	assert.Equal(t, PhaseHidden, c.Phase())
	assert.Empty(t, s.calls)
}

func TestScrollClampsNegativeOffsets(t *testing.T) {
	c, _, _ := newTestCoordinator(PlatformIOS)
	c.Scroll(-20)
	assert.Equal(t, 0.0, c.ScrollOffset())
}

func TestPlatformByName(t *testing.T) {
	p, ok := PlatformByName("Android")
	require.True(t, ok)
	assert.Equal(t, PlatformAndroid, p)

	p, ok = PlatformByName("")
	require.True(t, ok)
	assert.Equal(t, PlatformTerminal, p)

	_, ok = PlatformByName("windows-phone")
	assert.False(t, ok)
}
