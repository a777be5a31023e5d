package web

import (
	"embed"
)

// staticFiles holds the embedded HTML for the status page.
//
//go:embed static/*
var staticFiles embed.FS
