// ABOUTME: Markdown rendering for assistant replies
// ABOUTME: Converts model output to HTML for clients that render rich text

package assistant

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderHTML converts a markdown reply to HTML. Model output is treated as
// untrusted: goldmark escapes raw HTML by default, so embedded tags in the
// reply are rendered inert.
func RenderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
