// Package web embeds the page templates and static assets of the frontend.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

func sub(dir string) fs.FS {
	f, err := fs.Sub(content, dir)
	if err != nil {
		// Only reachable if the embed directive above changes.
		panic("web: missing embedded directory " + dir + ": " + err.Error())
	}
	return f
}

// StaticFS returns the stylesheet and script served under /static/.
func StaticFS() fs.FS { return sub("static") }

// TemplatesFS returns the page templates.
func TemplatesFS() fs.FS { return sub("templates") }
