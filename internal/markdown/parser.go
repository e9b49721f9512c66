package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseWithFrontmatter renders source to HTML and decodes its YAML front
// matter. A document without front matter yields an empty, non-nil map.
func (p *Parser) ParseWithFrontmatter(source []byte) (content []byte, meta map[string]any, err error) {
	context := parser.NewContext()
	var buf bytes.Buffer

	err = p.md.Convert(source, &buf, parser.WithContext(context))
	if err != nil {
		return nil, nil, err
	}

	meta = make(map[string]any)
	if data := frontmatter.Get(context); data != nil {
		if err := data.Decode(&meta); err != nil {
			return nil, nil, fmt.Errorf("invalid front matter: %w", err)
		}
	}

	return buf.Bytes(), meta, nil
}

// String returns meta[key] if it is a string, or "".
func String(meta map[string]any, key string) string {
	v, _ := meta[key].(string)
	return v
}

// StripFrontmatter returns source without a leading "---" delimited block.
func StripFrontmatter(source []byte) []byte {
	const delim = "---"
	if !bytes.HasPrefix(source, []byte(delim+"\n")) {
		return source
	}
	rest := source[len(delim)+1:]
	end := bytes.Index(rest, []byte("\n"+delim+"\n"))
	if end < 0 {
		return source
	}
	return bytes.TrimLeft(rest[end+len(delim)+2:], "\n")
}
