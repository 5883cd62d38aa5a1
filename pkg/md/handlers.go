// handlers.go implements the per-element conversion handlers.
package md

import (
	"strings"
	"unicode"
)

func handleChildren(s *conversion, n *Node) string {
	return s.children(n)
}

// handleParagraph elides genuinely empty paragraphs but keeps paragraph
// shells around block content (macros, image embeds), which would otherwise
// be dropped by the emptiness check.
func handleParagraph(s *conversion, n *Node) string {
	content := s.children(n)
	if strings.TrimSpace(content) == "" && !n.hasBlockDescendant() {
		return ""
	}
	return content + "\n\n"
}

// handleHeading builds a handler for one heading level. Levels beyond the
// configured ceiling clamp to it; the target dialect only has a few sizes.
func handleHeading(level int) handlerFunc {
	return func(s *conversion, n *Node) string {
		content := strings.TrimSpace(s.children(n))
		// Clamp into a local: the captured level is shared by every
		// conversion in the process and must never be written.
		lvl := level
		if lvl > s.opts.MaxHeadingLevel {
			lvl = s.opts.MaxHeadingLevel
		}
		return strings.Repeat("#", lvl) + " " + content + "\n\n"
	}
}

// splitWhitespace splits content into leading whitespace, trimmed core and
// trailing whitespace.
func splitWhitespace(content string) (leading, core, trailing string) {
	core = strings.TrimSpace(content)
	leading = content[:len(content)-len(strings.TrimLeftFunc(content, unicode.IsSpace))]
	trailing = content[len(strings.TrimRightFunc(content, unicode.IsSpace)):]
	return leading, core, trailing
}

// wrapMarker wraps content in emphasis markers, moving surrounding
// whitespace outside them; whitespace directly inside the markers would
// invalidate them. Pure whitespace is returned unchanged, never wrapped.
func wrapMarker(content, marker string) string {
	leading, core, trailing := splitWhitespace(content)
	if core == "" {
		return content
	}
	return leading + marker + core + marker + trailing
}

func handleEmphasis(s *conversion, n *Node) string {
	return wrapMarker(s.children(n), "_")
}

func handleStrong(s *conversion, n *Node) string {
	return wrapMarker(s.children(n), "**")
}

func handleLink(s *conversion, n *Node) string {
	text := strings.TrimSpace(s.children(n))
	href := n.Attr("href")
	if strings.HasPrefix(href, "/") {
		href = s.opts.SiteBaseURL + href
	}
	if text == "" {
		return href
	}
	if href == "" {
		return text
	}
	return "[" + text + "](" + href + ")"
}

func handleListItem(s *conversion, n *Node) string {
	return "* " + strings.TrimSpace(s.children(n)) + "\n"
}

// handleLineBreak emits a single newline: a line break inside a block, not
// a paragraph break.
func handleLineBreak(_ *conversion, _ *Node) string {
	return "\n"
}

// handleTime emits the machine-readable datetime verbatim.
func handleTime(_ *conversion, n *Node) string {
	return n.Attr("datetime")
}

func handleTaskList(s *conversion, n *Node) string {
	return s.children(n) + "\n"
}

// handleTask renders one task item. The checkbox is checked iff the status
// reads "complete"; the body is flattened to plain text rather than
// recursively formatted.
func handleTask(s *conversion, n *Node) string {
	marker := "* [ ] "
	if status := n.Find("ac:task-status"); status != nil {
		if strings.TrimSpace(status.RawText()) == "complete" {
			marker = "* [x] "
		}
	}
	body := ""
	if bodyNode := n.Find("ac:task-body"); bodyNode != nil {
		body = strings.TrimSpace(whitespaceRun.ReplaceAllString(bodyNode.RawText(), " "))
	}
	return marker + body + "\n"
}

const unknownUserMention = "<@unknown-user>"

// handleResourceLink converts ac:link elements. User references become
// mention placeholders keyed by userkey; a caller-side enrichment step
// swaps them for real mentions. Page references flatten to their visible
// text.
func handleResourceLink(s *conversion, n *Node) string {
	if user := n.Find("ri:user"); user != nil {
		key := user.Attr("ri:userkey")
		if key == "" {
			return unknownUserMention
		}
		return "<@" + key + ">"
	}
	if page := n.Find("ri:page"); page != nil {
		if body := n.Find("ac:plain-text-link-body"); body != nil {
			if text := strings.TrimSpace(body.RawText()); text != "" {
				return text
			}
		}
		return page.Attr("ri:content-title")
	}
	return s.children(n)
}
