// Package avatar resolves the image URL shown for a profile
package avatar

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultBackground = "facc15"
	initialsURL       = "https://api.dicebear.com/9.x/initials/svg?seed=%s&backgroundColor=%s&chars=1&fontSize=45&fontWeight=700"
)

// Resolver picks an avatar URL from a fixed username map, the stored URL,
// or a generated initials image, in that order
type Resolver struct {
	overrides  map[string]string
	background string
}

// NewResolver creates a resolver. Override keys are matched trimmed and
// lower-cased.
func NewResolver(overrides map[string]string, background string) *Resolver {
	if background == "" {
		background = DefaultBackground
	}
	m := make(map[string]string, len(overrides))
	for name, u := range overrides {
		m[normalize(name)] = u
	}
	return &Resolver{overrides: m, background: strings.TrimPrefix(background, "#")}
}

// Resolve returns the URL for username. An empty username resolves to "".
func (r *Resolver) Resolve(username, storedURL string) string {
	if username == "" {
		return ""
	}
	if u, ok := r.overrides[normalize(username)]; ok && u != "" {
		return u
	}
	if storedURL != "" {
		return storedURL
	}
	return r.Initials(username)
}

// Initials returns the generated initials image for seed
func (r *Resolver) Initials(seed string) string {
	return fmt.Sprintf(initialsURL, escape(seed), r.background)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// escape percent-encodes like a URI component, spaces as %20
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
