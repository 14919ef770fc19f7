// Package web provides embedded static assets (CSS) for the site.
// In development, templates load Tailwind from CDN; in production, the
// compiled stylesheet is embedded here and served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree. In Docker builds, this
// includes the compiled TailwindCSS output as css/app.css. In local
// development it may only contain the input.css source file.
//
//go:embed all:static
var StaticFS embed.FS
