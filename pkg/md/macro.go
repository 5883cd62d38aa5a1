// macro.go implements the structured-macro subsystem.
package md

import (
	"fmt"
	"html"
	"strings"
)

// macroHandlers maps ac:name values to handlers. Unknown macros flatten to
// their children so content is preserved, never dropped. Populated in init
// for the same reason as tagHandlers.
var macroHandlers map[string]handlerFunc

func init() {
	macroHandlers = map[string]handlerFunc{
		"info":       handleCallout,
		"note":       handleCallout,
		"code":       handleCodeMacro,
		"jira":       handleJiraMacro,
		"multimedia": handleEmbed,
	}
}

func handleMacro(s *conversion, n *Node) string {
	if handler, ok := macroHandlers[n.Attr("ac:name")]; ok {
		return handler(s, n)
	}
	return s.children(n)
}

// macroParam returns the trimmed value of the named ac:parameter child, or
// "" if absent.
func macroParam(n *Node, name string) string {
	for _, param := range n.FindAll("ac:parameter") {
		if param.Attr("ac:name") == name {
			return strings.TrimSpace(param.RawText())
		}
	}
	return ""
}

// handleCodeMacro renders a code macro as a fenced block. The payload was
// entity-protected by the preprocessor before parsing; unescaping here is
// the reverse half of that round trip.
func handleCodeMacro(s *conversion, n *Node) string {
	body := n.Find("ac:plain-text-body")
	if body == nil {
		return ""
	}
	code := html.UnescapeString(strings.TrimSpace(body.RawText()))
	if code == "" {
		return ""
	}
	lang := macroParam(n, "language")
	return "```" + lang + "\n" + code + "\n```\n\n"
}

// handleJiraMacro links a referenced issue by key.
func handleJiraMacro(s *conversion, n *Node) string {
	key := macroParam(n, "key")
	if key == "" {
		return ""
	}
	return "[" + key + "](" + s.opts.IssueBaseURL + "/" + key + ")\n\n"
}

// handleCallout renders an info/note macro in the configured style.
func handleCallout(s *conversion, n *Node) string {
	title := macroParam(n, "title")
	body := ""
	if bodyNode := n.Find("ac:rich-text-body"); bodyNode != nil {
		body = strings.TrimSpace(s.children(bodyNode))
	}
	if s.opts.CalloutStyle == CalloutMarkers {
		return renderCalloutMarkers(s, title, body)
	}
	return renderCalloutQuote(title, body)
}

// renderCalloutMarkers wraps the callout in numbered START/END lines. The
// counter is conversion-scoped and 0-based, so N callouts number 0..N-1 in
// document order.
func renderCalloutMarkers(s *conversion, title, body string) string {
	index := s.callouts
	s.callouts++

	parts := []string{fmt.Sprintf("===========START CALLOUT %d==========\n", index)}
	if title != "" {
		parts = append(parts, "**"+title+"**\n")
	}
	if body != "" {
		parts = append(parts, body)
	}
	parts = append(parts, fmt.Sprintf("\n===========END CALLOUT %d==========\n", index))
	return strings.Join(parts, "\n") + "\n\n"
}

// renderCalloutQuote renders the callout as a blockquote. The target
// dialect cannot hold a fenced code block inside a blockquote, so fences in
// the rendered body break out as standalone blocks between quoted segments.
func renderCalloutQuote(title, body string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("> **" + title + "**\n")
	}
	if body != "" {
		sb.WriteString(quoteWithBreakout(body))
	}
	return strings.TrimRight(sb.String(), "\n") + "\n\n"
}

// quoteWithBreakout prefixes each body line with the quote marker except
// fenced code blocks, which are emitted verbatim with a blank line on each
// side so they terminate the surrounding quote.
func quoteWithBreakout(body string) string {
	var segments []string
	var current []string
	inFence := false
	flush := func() {
		if len(current) > 0 {
			segments = append(segments, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "```") {
			if !inFence {
				flush()
			}
			current = append(current, line)
			if inFence {
				flush()
			}
			inFence = !inFence
			continue
		}
		if inFence {
			current = append(current, line)
			continue
		}
		current = append(current, strings.TrimRight("> "+line, " "))
	}
	flush()
	return strings.Join(segments, "\n\n")
}
