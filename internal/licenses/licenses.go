// Package licenses carries the third-party notices shipped with Guini.
package licenses

import (
	_ "embed"
	"strings"
)

//go:embed embedded/THIRD_PARTY_NOTICES.md
var noticesText string

func NoticesText() string {
	return noticesText
}

// Modules returns the module paths listed in the notices, in file order.
func Modules() []string {
	var out []string
	for _, line := range strings.Split(noticesText, "\n") {
		if name, ok := strings.CutPrefix(line, "## "); ok {
			out = append(out, strings.TrimSpace(name))
		}
	}
	return out
}
