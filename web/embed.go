package web

import (
	"embed"
	"io/fs"
)

// adminFS embeds the admin panel shell served under /admin.
//
//go:embed all:admin
var adminFS embed.FS

// AdminFS returns the admin panel files rooted at the admin directory.
func AdminFS() (fs.FS, error) {
	return fs.Sub(adminFS, "admin")
}
