// Package public holds the browser assets served next to the rendered posts.
package public

import "embed"

// Assets contains the scripts and styles directories.
//
//go:embed scripts styles
var Assets embed.FS
