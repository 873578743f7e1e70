package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/errors"
)

// Graph export formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// GraphFormat infers the export format from a file name.
func GraphFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return FormatDOT, nil
	case ".svg":
		return FormatSVG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported graph file %q (want .dot or .svg)", path)
	}
}

// DOT renders the crawled dependency graph in Graphviz DOT. Packages with
// funding links are filled.
func DOT(g *crawl.Graph) string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=\"rounded\", fontname=\"Helvetica\"];\n")

	for _, n := range g.Nodes() {
		label := n.Name
		if n.Version != "" {
			label += "\n" + n.Version
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if len(n.FundingLinks) > 0 {
			attrs = append(attrs, `style="rounded,filled"`, "fillcolor=\"#c8e6c9\"")
		}
		if n.Depth == 0 {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&b, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteGraph writes g to w in the given format.
func WriteGraph(ctx context.Context, w io.Writer, g *crawl.Graph, format string) error {
	dot := DOT(g)
	switch format {
	case FormatDOT:
		_, err := io.WriteString(w, dot)
		return err
	case FormatSVG:
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format %q", format)
	}
}
