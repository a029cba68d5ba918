package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/five82/brandloom/internal/stream"
)

// Screen is one node of the navigation graph.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenWelcome
	ScreenBrandName
	ScreenBrandDescription
	ScreenBrandImages
	ScreenBrandProposal
	ScreenDashboard
	ScreenThemeSelection
	ScreenThemeProposal
	ScreenGeneratingPosts
	ScreenGeneratedPosts
	ScreenInstagramPreview
	ScreenPlatformConnection
	ScreenSuccess
)

var screenNames = [...]string{
	ScreenLogin:              "login",
	ScreenWelcome:            "welcome",
	ScreenBrandName:          "brand-name",
	ScreenBrandDescription:   "brand-description",
	ScreenBrandImages:        "brand-images",
	ScreenBrandProposal:      "brand-proposal",
	ScreenDashboard:          "dashboard",
	ScreenThemeSelection:     "theme-selection",
	ScreenThemeProposal:      "theme-proposal",
	ScreenGeneratingPosts:    "generating-posts",
	ScreenGeneratedPosts:     "generated-posts",
	ScreenInstagramPreview:   "instagram-preview",
	ScreenPlatformConnection: "platform-connection",
	ScreenSuccess:            "success",
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

// Screens lists every screen in declaration order.
func Screens() []Screen {
	out := make([]Screen, len(screenNames))
	for i := range screenNames {
		out[i] = Screen(i)
	}
	return out
}

// ParseScreen resolves a kebab-case screen name.
func ParseScreen(name string) (Screen, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range screenNames {
		if n == name {
			return Screen(i), nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}

// ErrInvalidTransition is returned when no edge leads from the current
// screen to the requested one.
var ErrInvalidTransition = errors.New("invalid screen transition")

// transitions lists the exits a user action may take from each screen.
// Logout and failure redirects bypass the table.
var transitions = map[Screen][]Screen{
	ScreenLogin:              {ScreenWelcome, ScreenDashboard},
	ScreenWelcome:            {ScreenBrandName, ScreenDashboard},
	ScreenBrandName:          {ScreenBrandDescription, ScreenWelcome, ScreenDashboard},
	ScreenBrandDescription:   {ScreenBrandImages, ScreenBrandName},
	ScreenBrandImages:        {ScreenBrandProposal, ScreenBrandDescription},
	ScreenBrandProposal:      {ScreenDashboard, ScreenBrandImages},
	ScreenDashboard:          {ScreenBrandName, ScreenThemeSelection, ScreenThemeProposal, ScreenGeneratingPosts, ScreenGeneratedPosts},
	ScreenThemeSelection:     {ScreenThemeProposal, ScreenDashboard},
	ScreenThemeProposal:      {ScreenGeneratingPosts, ScreenGeneratedPosts, ScreenThemeSelection, ScreenDashboard},
	ScreenGeneratingPosts:    {ScreenGeneratedPosts, ScreenThemeProposal, ScreenDashboard},
	ScreenGeneratedPosts:     {ScreenInstagramPreview, ScreenThemeProposal, ScreenGeneratingPosts, ScreenDashboard},
	ScreenInstagramPreview:   {ScreenPlatformConnection, ScreenSuccess, ScreenGeneratedPosts, ScreenDashboard},
	ScreenPlatformConnection: {ScreenInstagramPreview},
	ScreenSuccess:            {ScreenThemeProposal, ScreenThemeSelection, ScreenDashboard},
}

// CanTransition reports whether the table has an edge from one screen to
// another. Staying on the same screen is always allowed.
func CanTransition(from, to Screen) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Exits returns the screens reachable from s by a user action.
func Exits(s Screen) []Screen {
	return append([]Screen(nil), transitions[s]...)
}

// RequiresTheme reports whether s renders a selected theme.
func RequiresTheme(s Screen) bool {
	switch s {
	case ScreenGeneratingPosts, ScreenGeneratedPosts, ScreenInstagramPreview, ScreenSuccess:
		return true
	}
	return false
}

// RequiresBrand reports whether s works on the selected brand.
func RequiresBrand(s Screen) bool {
	switch s {
	case ScreenThemeSelection, ScreenThemeProposal:
		return true
	}
	return RequiresTheme(s)
}

// owns reports whether s displays generations of kind k. Leaving the
// owning screen cancels the stream.
func owns(s Screen, k stream.Kind) bool {
	switch k {
	case stream.ThemeOptions:
		return s == ScreenThemeSelection
	case stream.ThemeImages:
		return s == ScreenThemeProposal
	case stream.Posts:
		return s == ScreenGeneratingPosts
	}
	return false
}
