// Package web holds the ticker page served at "/".
package web

import "embed"

//go:embed static
var Files embed.FS
