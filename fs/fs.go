package appfs

import "embed"

// FS holds the view and email templates.
// `all:` keeps the `_`-prefixed layout and base files.
//
//go:embed all:templates
var FS embed.FS
