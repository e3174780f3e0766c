// Package templates embeds the reminder email templates and their layouts.
package templates

import "embed"

// FS holds emails/**/*.md and layouts/*.html.
//
//go:embed emails layouts
var FS embed.FS
