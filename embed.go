// Package ipms holds assets embedded into the binary: database migrations and
// the default landing page content document.
package ipms

import "embed"

// Migrations contains goose SQL migrations under the "migrations" directory.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DefaultContent is the landing content served when no content file is configured.
//
//go:embed content/landing.json
var DefaultContent []byte
