// Package md converts Confluence storage format to Slack-flavored markdown.
package md

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// CalloutStyle selects how info/note macros render. The style is fixed when
// the converter is built, not per document.
type CalloutStyle int

const (
	// CalloutQuote renders callouts as blockquotes with a bolded title.
	// Nested code blocks break out of the quote as standalone fences, since
	// the target dialect cannot nest a fence inside a blockquote.
	CalloutQuote CalloutStyle = iota
	// CalloutMarkers wraps each callout in numbered START/END marker lines,
	// numbered 0..N-1 in document order.
	CalloutMarkers
)

// ParseCalloutStyle maps a style name ("quote" or "markers") to a
// CalloutStyle. The empty string means the default quote style.
func ParseCalloutStyle(name string) (CalloutStyle, error) {
	switch name {
	case "", "quote":
		return CalloutQuote, nil
	case "markers":
		return CalloutMarkers, nil
	}
	return CalloutQuote, fmt.Errorf("unknown callout style %q", name)
}

const (
	defaultSiteBaseURL  = "https://sync.hudlnet.com"
	defaultIssueBaseURL = "https://hudl-jira.atlassian.net/browse"
	defaultMaxHeading   = 3
)

// Options configures a Converter.
type Options struct {
	// SiteBaseURL resolves site-relative link hrefs ("/display/...").
	SiteBaseURL string
	// IssueBaseURL is the issue-tracker base for jira macro links.
	IssueBaseURL string
	// MaxHeadingLevel clamps heading depth; canvases render three sizes.
	MaxHeadingLevel int
	// CalloutStyle picks the info/note rendering mode.
	CalloutStyle CalloutStyle
	// Fetcher and Publisher resolve attachment embeds. Either may be nil,
	// in which case embeds render as empty output.
	Fetcher   AttachmentFetcher
	Publisher BinaryPublisher
}

// Converter walks a storage-format tree and emits markdown.
type Converter struct {
	opts Options
}

// NewConverter returns a Converter, applying defaults for zero options.
func NewConverter(opts Options) *Converter {
	if opts.SiteBaseURL == "" {
		opts.SiteBaseURL = defaultSiteBaseURL
	}
	if opts.IssueBaseURL == "" {
		opts.IssueBaseURL = defaultIssueBaseURL
	}
	if opts.MaxHeadingLevel <= 0 {
		opts.MaxHeadingLevel = defaultMaxHeading
	}
	opts.SiteBaseURL = strings.TrimSuffix(opts.SiteBaseURL, "/")
	opts.IssueBaseURL = strings.TrimSuffix(opts.IssueBaseURL, "/")
	return &Converter{opts: opts}
}

// Convert renders the document to markdown. The walk itself is pure:
// attachment embeds are collected as placeholders and resolved afterwards,
// so collaborator failures degrade a single embed and never the document.
// Any valid tree produces a string.
func (c *Converter) Convert(ctx context.Context, doc *Node) (string, error) {
	if doc == nil {
		return "", nil
	}
	s := &conversion{opts: c.opts}
	out := s.process(doc)
	out = s.resolveEmbeds(ctx, out)
	return collapseBlankLines(out), nil
}

// ConvertStorage parses storage-format XHTML and converts it.
func (c *Converter) ConvertStorage(ctx context.Context, storage string) (string, error) {
	doc, err := ParseStorage(storage)
	if err != nil {
		return "", err
	}
	return c.Convert(ctx, doc)
}

// conversion is the per-document state threaded through the walk. A fresh
// one is created for every Convert call, so concurrent conversions never
// share the callout counter or embed list.
type conversion struct {
	opts     Options
	callouts int
	embeds   []embedRequest
}

// handlerFunc converts one element. Handlers recurse via s.process and
// decide themselves how to join child output.
type handlerFunc func(s *conversion, n *Node) string

// tagHandlers maps element names to handlers. ul/ol carry no markup of
// their own; the li handler emits the bullets. Populated in init: handlers
// recurse through process, so a composite literal would form an
// initialization cycle.
var tagHandlers map[string]handlerFunc

func init() {
	tagHandlers = map[string]handlerFunc{
		"p":            handleParagraph,
		"h1":           handleHeading(1),
		"h2":           handleHeading(2),
		"h3":           handleHeading(3),
		"h4":           handleHeading(4),
		"h5":           handleHeading(5),
		"h6":           handleHeading(6),
		"li":           handleListItem,
		"ul":           handleChildren,
		"ol":           handleChildren,
		"br":           handleLineBreak,
		"a":            handleLink,
		"em":           handleEmphasis,
		"i":            handleEmphasis,
		"strong":       handleStrong,
		"b":            handleStrong,
		"time":         handleTime,
		"table":        handleTable,
		"ac:task-list": handleTaskList,
		"ac:task":      handleTask,
		"ac:link":      handleResourceLink,
		"ac:image":     handleEmbed,

		"ac:structured-macro": handleMacro,
	}
}

// blockLevelNames is the set of element names that force blank-line joining
// when an unregistered container holds them.
var blockLevelNames = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "ul": true, "ol": true, "li": true, "table": true,
	"blockquote": true, "div": true,
	"ac:structured-macro": true, "ac:image": true, "ac:task-list": true,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// process converts one node. Text is normalized here; elements dispatch
// through the registry, and unregistered elements flatten to their
// children so content is never dropped.
func (s *conversion) process(n *Node) string {
	switch n.Kind {
	case KindText:
		text := strings.ReplaceAll(n.Data, " ", " ")
		return whitespaceRun.ReplaceAllString(text, " ")
	case KindElement:
		if handler, ok := tagHandlers[n.Data]; ok {
			return handler(s, n)
		}
		if hasBlockChild(n) {
			return s.joinBlocks(n)
		}
		return s.children(n)
	}
	return ""
}

// children converts all children and concatenates the results.
func (s *conversion) children(n *Node) string {
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(s.process(child))
	}
	return sb.String()
}

// joinBlocks converts all children and joins the non-empty results with a
// blank line.
func (s *conversion) joinBlocks(n *Node) string {
	var parts []string
	for _, child := range n.Children {
		if out := s.process(child); strings.TrimSpace(out) != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n\n")
}

func hasBlockChild(n *Node) bool {
	for _, child := range n.Children {
		if child.Kind == KindElement && blockLevelNames[child.Data] {
			return true
		}
	}
	return false
}
