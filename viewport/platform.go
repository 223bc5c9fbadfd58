package viewport

import "strings"

// Transition is how a container height change is applied.
type Transition int

const (
	TransitionImmediate Transition = iota
	TransitionAnimated
)

func (t Transition) String() string {
	if t == TransitionAnimated {
		return "animated"
	}
	return "immediate"
}

// Platform describes the host capabilities the coordinator depends on.
// It is picked once at startup.
type Platform struct {
	Name string
	// NativeKeyboardEvents is true when the host reports keyboard
	// show/hide with a height and a duration. Hosts without it resize the
	// container instead, which arrives as a layout change.
	NativeKeyboardEvents bool
	LayoutTransition     Transition
}

var (
	PlatformIOS = Platform{
		Name:                 "ios",
		NativeKeyboardEvents: true,
		LayoutTransition:     TransitionImmediate,
	}
	PlatformAndroid = Platform{
		Name:                 "android",
		NativeKeyboardEvents: false,
		LayoutTransition:     TransitionAnimated,
	}
	PlatformTerminal = Platform{
		Name:                 "terminal",
		NativeKeyboardEvents: true,
		LayoutTransition:     TransitionAnimated,
	}
)

// PlatformByName returns the preset called name.
func PlatformByName(name string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "terminal":
		return PlatformTerminal, true
	case "ios":
		return PlatformIOS, true
	case "android":
		return PlatformAndroid, true
	}
	return Platform{}, false
}
