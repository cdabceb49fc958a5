// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/dashboard").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are substrings that disqualify a URL. They keep
	// fragment endpoints and auth pages from becoming redirect targets.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts the "return" value from the query or form, rejects
// open redirects, and applies opts. It returns opts.Fallback when nothing
// acceptable was supplied.
//
//	dest := navigation.SafeBackURL(r, navigation.AfterLogin("/dashboard/student"))
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret == "" || !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") {
		return opts.Fallback
	}
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return opts.Fallback
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return opts.Fallback
		}
	}
	return ret
}

// AfterLogin returns the options for the post-login redirect: any dashboard
// page except the HTMX fragment endpoints, falling back to fallback.
func AfterLogin(fallback string) BackURLOptions {
	return BackURLOptions{
		AllowedPrefix:    "/dashboard",
		ExcludedSubpaths: []string{"/views/"},
		Fallback:         fallback,
	}
}
