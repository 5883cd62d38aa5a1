// preprocess.go protects literal code payloads before parsing and bounds
// blank-line accumulation after conversion.
package md

import (
	"html"
	"regexp"
	"strings"
)

var (
	// Matches a plain-text body holding a CDATA payload, capturing the
	// payload. Dotall: payloads span lines.
	codePayloadPattern = regexp.MustCompile(`(?s)<ac:plain-text-body>.*?<!\[CDATA\[(.*?)\]\]>.*?</ac:plain-text-body>`)

	tripleNewlinePattern = regexp.MustCompile(`\n{3,}`)
)

// protectCodePayloads entity-encodes CDATA payloads in place so markup
// metacharacters inside code cannot be misread as structure by the HTML
// parser. The code macro handler unescapes the payload when reading it
// back, making the round trip lossless.
func protectCodePayloads(storage string) string {
	return codePayloadPattern.ReplaceAllStringFunc(storage, func(match string) string {
		payload := codePayloadPattern.FindStringSubmatch(match)[1]
		return "<ac:plain-text-body>" + html.EscapeString(payload) + "</ac:plain-text-body>"
	})
}

// collapseBlankLines collapses runs of three or more newlines to exactly
// two and trims the document. Nested handlers each emit their own trailing
// blank lines without reasoning about neighbors; this bounds the result.
// Idempotent.
func collapseBlankLines(out string) string {
	return strings.TrimSpace(tripleNewlinePattern.ReplaceAllString(out, "\n\n"))
}
