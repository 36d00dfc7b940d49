package i18n

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

var speakOpen = regexp.MustCompile(`^\s*<speak[^>]*>`)
var speakClose = regexp.MustCompile(`</speak>\s*$`)

// WrapSpeak wraps text in a single voice-markup root envelope. Any existing
// root envelope is stripped first, so composing already-wrapped phrases never
// produces nested envelopes.
func WrapSpeak(text string) string {
	return "<speak>" + StripSpeak(text) + "</speak>"
}

// StripSpeak removes the root voice-markup envelope if present. Inner markup
// (breaks, emphasis) is left untouched.
func StripSpeak(text string) string {
	if !speakOpen.MatchString(text) || !speakClose.MatchString(text) {
		return text
	}
	text = speakOpen.ReplaceAllString(text, "")
	text = speakClose.ReplaceAllString(text, "")
	return text
}

// markdownSyntax is a cheap pre-check; plain phrases and phrases carrying
// only voice markup skip the parser.
const markdownSyntax = "*_`[#"

// PlainText strips markdown formatting from display text so it can be spoken.
// Text without markdown syntax is returned unchanged.
func PlainText(md string) string {
	if !strings.ContainsAny(md, markdownSyntax) {
		return md
	}

	src := []byte(md)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			switch t := n.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			}
			return ast.WalkContinue, nil
		}
		// Separate block-level nodes with a space so headings and
		// paragraphs do not run together when spoken.
		if n.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(strings.Join(strings.Fields(buf.String()), " "))
}
