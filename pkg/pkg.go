//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and in the default
	// config and cache paths.
	Name = "messageformat"
	// Description is the one-line summary shown in help output.
	Description = "Format Unicode MessageFormat 2 messages from the command line"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the project authors.
var Author = []AuthorInfo{
	{Name: "SkeLLLa"},
}
