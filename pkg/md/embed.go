// embed.go implements the two-phase attachment embed pipeline.
package md

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// AttachmentFetcher retrieves an attachment's binary content by filename.
type AttachmentFetcher interface {
	Fetch(ctx context.Context, filename string) (io.ReadCloser, error)
}

// BinaryPublisher publishes binary content and returns a public URL for it.
type BinaryPublisher interface {
	Publish(ctx context.Context, filename string, content io.Reader) (string, error)
}

// embedRequest records one attachment embed found during the walk. The walk
// emits only the placeholder token; all I/O happens in resolveEmbeds.
type embedRequest struct {
	token    string
	filename string
}

// handleEmbed converts ac:image elements and multimedia macros. Both carry
// a nested attachment reference naming the file to embed.
func handleEmbed(s *conversion, n *Node) string {
	attachment := n.Find("ri:attachment")
	if attachment == nil {
		return ""
	}
	filename := attachment.Attr("ri:filename")
	if filename == "" {
		return ""
	}

	token := fmt.Sprintf("{{ATTACH_%03d}}", len(s.embeds))
	s.embeds = append(s.embeds, embedRequest{token: token, filename: filename})
	return token + "\n\n"
}

// resolveEmbeds runs after the walk: each recorded request is fetched and
// published, and its token replaced by an image reference. A collaborator
// failure degrades that one embed to empty output; the rest of the document
// is unaffected.
func (s *conversion) resolveEmbeds(ctx context.Context, out string) string {
	for _, req := range s.embeds {
		out = strings.Replace(out, req.token, s.resolveOne(ctx, req), 1)
	}
	return out
}

func (s *conversion) resolveOne(ctx context.Context, req embedRequest) string {
	if s.opts.Fetcher == nil || s.opts.Publisher == nil {
		return ""
	}
	content, err := s.opts.Fetcher.Fetch(ctx, req.filename)
	if err != nil {
		return ""
	}
	defer content.Close()

	url, err := s.opts.Publisher.Publish(ctx, req.filename, content)
	if err != nil {
		return ""
	}
	return "![" + req.filename + "](" + url + ")"
}
