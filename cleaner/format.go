// Package cleaner renders extracted result fragments in the format a
// client asked for.
package cleaner

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/kqxs/models"
	"github.com/use-agent/kqxs/source"
)

// Output formats.
const (
	FormatHTML     = "html"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Formatter renders a source.Result. It is safe for concurrent use.
type Formatter struct {
	md *converter.Converter
}

// NewFormatter creates a Formatter.
func NewFormatter() *Formatter {
	return &Formatter{md: newMarkdownConverter()}
}

// Render converts every fragment to format and joins them with the
// result's separator. The html format returns the fragments untouched.
func (f *Formatter) Render(res source.Result, format string) (string, error) {
	if format == "" || format == FormatHTML || len(res.Fragments) == 0 {
		return res.String(), nil
	}

	out := make([]string, len(res.Fragments))
	for i, frag := range res.Fragments {
		var (
			s   string
			err error
		)
		switch format {
		case FormatText:
			s, err = toText(frag)
		case FormatMarkdown:
			s, err = toMarkdown(f.md, frag)
		default:
			return "", models.NewScrapeError(
				models.ErrCodeInvalidInput,
				fmt.Sprintf("unsupported output format %q", format),
				nil,
			)
		}
		if err != nil {
			return "", fmt.Errorf("render fragment %d as %s: %w", i, format, err)
		}
		out[i] = s
	}
	return strings.Join(out, res.Separator), nil
}

// toText strips markup and collapses whitespace.
func toText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
