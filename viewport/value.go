package viewport

import (
	"math"
	"time"
)

// Easing maps animation progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseInOut is a cubic ease-in-out curve.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// ListenerID identifies a registered listener.
type ListenerID int

// Listener receives the value on every animation step.
type Listener func(value float64)

// Timing describes one animation run.
type Timing struct {
	Duration time.Duration
	Easing   Easing
	Start    time.Time
}

type animation struct {
	from   float64
	to     float64
	timing Timing
	onDone func()
}

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Value is a time-varying number driven by Step. At most one animation runs
// at a time; starting another one, calling Set, or calling Stop cancels the
// current animation without running its completion callback.
type Value struct {
	value     float64
	listeners []listenerEntry
	nextID    ListenerID
	anim      *animation
}

// NewValue returns a value resting at v.
func NewValue(v float64) *Value {
	return &Value{value: v}
}

// Get returns the current value.
func (v *Value) Get() float64 {
	return v.value
}

// AddListener registers fn and returns its id.
func (v *Value) AddListener(fn Listener) ListenerID {
	v.nextID++
	v.listeners = append(v.listeners, listenerEntry{id: v.nextID, fn: fn})
	return v.nextID
}

// RemoveListener deregisters id. Unknown ids are ignored.
func (v *Value) RemoveListener(id ListenerID) {
	for i, l := range v.listeners {
		if l.id == id {
			v.listeners = append(v.listeners[:i], v.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (v *Value) ListenerCount() int {
	return len(v.listeners)
}

// Animating reports whether an animation is in progress.
func (v *Value) Animating() bool {
	return v.anim != nil
}

// Target returns the destination of the running animation, or the current
// value when at rest.
func (v *Value) Target() float64 {
	if v.anim != nil {
		return v.anim.to
	}
	return v.value
}

// Set stops any animation and jumps to x.
func (v *Value) Set(x float64) {
	v.anim = nil
	v.update(x)
}

// Stop cancels the running animation, leaving the value where it is.
func (v *Value) Stop() {
	v.anim = nil
}

// Animate starts moving towards to. A non-positive duration completes
// immediately: listeners see the final value and onDone runs before
// Animate returns.
func (v *Value) Animate(to float64, timing Timing, onDone func()) {
	if timing.Easing == nil {
		timing.Easing = EaseInOut
	}
	if timing.Duration <= 0 {
		v.anim = nil
		v.update(to)
		if onDone != nil {
			onDone()
		}
		return
	}
	v.anim = &animation{from: v.value, to: to, timing: timing, onDone: onDone}
}

// Step advances the running animation to now. It returns true while the
// animation is still in progress.
func (v *Value) Step(now time.Time) bool {
	a := v.anim
	if a == nil {
		return false
	}
	elapsed := now.Sub(a.timing.Start)
	progress := float64(elapsed) / float64(a.timing.Duration)
	if progress < 0 {
		progress = 0
	}
	if progress >= 1 {
		v.anim = nil
		v.update(a.to)
		if a.onDone != nil {
			a.onDone()
		}
		return v.anim != nil
	}
	v.update(a.from + (a.to-a.from)*a.timing.Easing(progress))
	return true
}

func (v *Value) update(x float64) {
	v.value = x
	if len(v.listeners) == 0 {
		return
	}
	snapshot := make([]listenerEntry, len(v.listeners))
	copy(snapshot, v.listeners)
	for _, l := range snapshot {
		l.fn(x)
	}
}
