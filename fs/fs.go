// Package appfs embeds the application's static assets.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
