package model

import (
	"fmt"
	"strings"
)

// Platform identifies a social network the user can connect.
type Platform string

const (
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	LinkedIn  Platform = "linkedin"
)

// AllPlatforms lists the supported platforms in display order.
func AllPlatforms() []Platform {
	return []Platform{Instagram, Facebook, Twitter, LinkedIn}
}

// ParsePlatform validates a platform key.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllPlatforms() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Label returns a display name.
func (p Platform) Label() string {
	switch p {
	case Instagram:
		return "Instagram"
	case Facebook:
		return "Facebook"
	case Twitter:
		return "Twitter / X"
	case LinkedIn:
		return "LinkedIn"
	default:
		return string(p)
	}
}

// Connection is the connection state for one platform.
type Connection struct {
	Connected bool
	Account   string
}

// Platforms holds the connection state per platform.
type Platforms map[Platform]Connection

// NewPlatforms returns every platform disconnected.
func NewPlatforms() Platforms {
	out := make(Platforms, len(AllPlatforms()))
	for _, p := range AllPlatforms() {
		out[p] = Connection{}
	}
	return out
}

// Clone copies the map.
func (ps Platforms) Clone() Platforms {
	out := make(Platforms, len(ps))
	for k, v := range ps {
		out[k] = v
	}
	return out
}

// AnyConnected reports whether at least one platform is connected.
func (ps Platforms) AnyConnected() bool {
	for _, c := range ps {
		if c.Connected {
			return true
		}
	}
	return false
}

// SimulatedAccount is the handle a simulated connection produces.
func SimulatedAccount(p Platform) string {
	return "your" + string(p) + "account"
}
