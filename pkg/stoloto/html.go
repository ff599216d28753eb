package stoloto

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

var entityReplacer = strings.NewReplacer(
	"&laquo;", `"`,
	"&raquo;", `"`,
	"&quot;", `"`,
	"&nbsp;", " ",
	"&amp;", "&",
)

// CleanHTML strips tags and common entities from localized CMS text.
func CleanHTML(text string) string {
	if text == "" {
		return ""
	}
	text = tagPattern.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
