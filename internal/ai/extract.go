package ai

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractCode isolates a single code snippet from a model response. The
// response is parsed as Markdown; the first fenced or indented code block
// wins, regardless of its info string. A fence-less response that still looks
// like bare code is used whole. Anything else is ErrNoCode.
func ExtractCode(response string) (string, error) {
	src := []byte(response)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			var b strings.Builder
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			if code := strings.TrimSpace(b.String()); code != "" {
				blocks = append(blocks, code)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if len(blocks) > 0 {
		// first block wins; later blocks are usually alternatives or output
		return blocks[0], nil
	}

	if code := strings.TrimSpace(response); looksLikeCode(code) {
		return code, nil
	}
	return "", ErrNoCode
}

// looksLikeCode guesses whether a fence-less response is bare code rather
// than prose: every non-empty leading line up to the first blank must look
// like a statement.
func looksLikeCode(s string) bool {
	if s == "" {
		return false
	}
	line := s
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		line = s[:i]
	}
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "plt."),
		strings.HasPrefix(line, "df"),
		strings.HasPrefix(line, "for "),
		strings.HasPrefix(line, "if "),
		strings.HasPrefix(line, "#"):
		return true
	}
	// assignment like `labels, values = df.group(...)`
	if i := strings.Index(line, "="); i > 0 && !strings.ContainsAny(line[:i], ".!?:;") {
		return strings.Contains(s, "plt.") || strings.Contains(s, "df")
	}
	return false
}
