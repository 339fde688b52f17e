package render

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/vegadoc/vegadoc/pkg/directive"
)

// textRenderer renders whole pages as plain text. It stands in for the
// print-oriented output family: charts become bracketed placeholders,
// listings become indented blocks, and markup is flattened.
type textRenderer struct{}

func newTextRenderer() renderer.NodeRenderer {
	return &textRenderer{}
}

// RegisterFuncs implements renderer.NodeRenderer for every node kind a
// page can contain, plus the directive kinds.
func (r *textRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	// blocks
	reg.Register(ast.KindDocument, r.renderNoop)
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderBlockGap)
	reg.Register(ast.KindTextBlock, r.renderTextBlock)
	reg.Register(ast.KindBlockquote, r.renderBlockGap)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindHTMLBlock, r.renderSkip)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)

	// inlines
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindCodeSpan, r.renderNoop)
	reg.Register(ast.KindEmphasis, r.renderNoop)
	reg.Register(ast.KindImage, r.renderSkip)
	reg.Register(ast.KindLink, r.renderNoop)
	reg.Register(ast.KindRawHTML, r.renderSkip)
	reg.Register(ast.KindText, r.renderText)
	reg.Register(ast.KindString, r.renderString)

	// directive nodes
	reg.Register(directive.KindChartTarget, r.renderSkip)
	reg.Register(directive.KindChartListing, r.renderChartListing)
	reg.Register(directive.KindChartEmbed, r.renderChartEmbed)
}

func (r *textRenderer) renderNoop(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderSkip(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

func (r *textRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		_, _ = w.WriteString(strings.Repeat("#", n.Level) + " ")
	} else {
		_, _ = w.WriteString("\n\n")
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderBlockGap(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("\n\n")
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderTextBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("\n")
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		_, _ = w.WriteString("    ")
		seg := lines.At(i)
		_, _ = w.Write(seg.Value(source))
	}
	_, _ = w.WriteString("\n")
	return ast.WalkSkipChildren, nil
}

func (r *textRenderer) renderList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("\n")
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderListItem(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("- ")
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderThematicBreak(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("---\n\n")
	}
	return ast.WalkSkipChildren, nil
}

func (r *textRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		n := node.(*ast.AutoLink)
		_, _ = w.Write(n.URL(source))
	}
	return ast.WalkSkipChildren, nil
}

func (r *textRenderer) renderText(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Text)
	_, _ = w.Write(n.Segment.Value(source))
	if n.SoftLineBreak() || n.HardLineBreak() {
		_, _ = w.WriteString("\n")
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderString(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		n := node.(*ast.String)
		_, _ = w.Write(n.Value)
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderChartListing(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*directive.ChartListing)
	for _, line := range strings.Split(n.Code, "\n") {
		_, _ = w.WriteString("    " + line + "\n")
	}
	_, _ = w.WriteString("\n")
	return ast.WalkSkipChildren, nil
}

// renderChartEmbed emits the placeholder contract text exactly:
// "[ graph: <alt> ]" when alt text is set, "[ graph ]" otherwise.
func (r *textRenderer) renderChartEmbed(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*directive.ChartEmbed)
	_, _ = w.WriteString(Placeholder(n.Alt))
	_, _ = w.WriteString("\n\n")
	return ast.WalkSkipChildren, nil
}

// Placeholder returns the static stand-in text for a chart.
func Placeholder(alt string) string {
	if alt != "" {
		return fmt.Sprintf("[ graph: %s ]", alt)
	}
	return "[ graph ]"
}
