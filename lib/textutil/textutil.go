package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeCommand turns what a user typed into the form commands are
// registered under: lowercase, no whitespace, dashes become underscores.
func NormalizeCommand(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}
