package markdown

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts markdown documents to sanitized HTML fragments.
// Fenced code blocks are part of CommonMark; tables come from the goldmark
// table extension. Raw HTML in the source is never passed through.
//
// A Renderer holds no per-call state and is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer builds the renderer used for every page.
func NewRenderer() *Renderer {
	engine := goldmark.New(
		goldmark.WithExtensions(
			extension.NewTable(
				extension.WithTableCellAlignMethod(extension.TableCellAlignAttribute),
			),
		),
	)

	return &Renderer{
		engine: engine,
		policy: newPolicy(),
	}
}

var codeLanguage = regexp.MustCompile(`^language-[\w+#.-]+$`)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(codeLanguage).OnElements("code")
	p.AllowAttrs("align").Matching(bluemonday.CellAlign).OnElements("th", "td")
	return p
}

// Render returns the HTML fragment for source.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return string(r.policy.SanitizeBytes(buf.Bytes())), nil
}
