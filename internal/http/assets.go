package http

import "embed"

//go:embed assets/dashboard.html assets/static
var assets embed.FS
