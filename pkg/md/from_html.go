// from_html.go converts rendered ("view" format) HTML when storage format
// is unavailable. Rendered pages have macros already expanded server-side,
// so a generic conversion is good enough for this path.
package md

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var (
	renderedMacroPattern = regexp.MustCompile(`(?s)<ac:structured-macro[^>]*>.*?</ac:structured-macro>`)
	renderedLinkPattern  = regexp.MustCompile(`(?s)<ac:link[^>]*>.*?</ac:link>`)
	renderedRefPattern   = regexp.MustCompile(`<ri:[a-z-]+[^>]*/?>`)
)

// FromViewHTML converts rendered Confluence HTML to markdown. Any macro
// scaffolding that survived rendering is stripped first; unlike the storage
// path, this conversion makes no attempt at macro semantics.
func FromViewHTML(rendered string) (string, error) {
	if rendered == "" {
		return "", nil
	}

	rendered = renderedMacroPattern.ReplaceAllString(rendered, "")
	rendered = renderedLinkPattern.ReplaceAllString(rendered, "")
	rendered = renderedRefPattern.ReplaceAllString(rendered, "")

	markdown, err := htmltomarkdown.ConvertString(rendered)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}
