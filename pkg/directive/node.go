package directive

import (
	"github.com/yuin/goldmark/ast"

	"github.com/vegadoc/vegadoc/pkg/spec"
)

// KindChartTarget is the node kind for the anchor emitted before every
// chart, so other pages can link to the listing/plot pair.
var KindChartTarget = ast.NewNodeKind("ChartTarget")

// ChartTarget is an anchor node. It is always the first node of a
// directive's output sequence.
type ChartTarget struct {
	ast.BaseBlock

	// TargetID is the unique anchor identifier.
	TargetID string
}

// NewChartTarget creates an anchor node with the given id.
func NewChartTarget(id string) *ChartTarget {
	return &ChartTarget{TargetID: id}
}

// Kind implements ast.Node.
func (n *ChartTarget) Kind() ast.NodeKind { return KindChartTarget }

// Dump implements ast.Node.
func (n *ChartTarget) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"TargetID": n.TargetID}, nil)
}

// KindChartListing is the node kind for rendered code listings: the
// snippet source, or the pretty-printed specification JSON.
var KindChartListing = ast.NewNodeKind("ChartListing")

// ChartListing is a code listing carrying its own text, independent of
// the page source (the JSON listing has no backing source segment).
type ChartListing struct {
	ast.BaseBlock

	// Language tags the listing for syntax highlighting ("hcl", "json").
	Language string

	// Code is the listing text.
	Code string
}

// NewChartListing creates a listing node.
func NewChartListing(language, code string) *ChartListing {
	return &ChartListing{Language: language, Code: code}
}

// Kind implements ast.Node.
func (n *ChartListing) Kind() ast.NodeKind { return KindChartListing }

// Dump implements ast.Node.
func (n *ChartListing) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Language": n.Language}, nil)
}

// KindChartEmbed is the node kind for the plot itself.
var KindChartEmbed = ast.NewNodeKind("ChartEmbed")

// ChartEmbed is the intermediate node bridging directive processing
// and format-specific rendering. It is created once per directive
// invocation and never mutated afterwards; renderers only read it.
type ChartEmbed struct {
	ast.BaseBlock

	// TargetID is the anchor identifier of the invocation.
	TargetID string

	// DivID is the unique rendering-container identifier; the artifact
	// filename derives from it.
	DivID string

	// Source is the rendered source listing, nil when code is hidden.
	Source *ChartListing

	// RelPath is the page's directory relative to the docs root; the
	// artifact file is written there under the output root.
	RelPath string

	// SourcePath is the originating page file.
	SourcePath string

	// Line is the directive's line number in the page.
	Line int

	// Spec is the chart specification. Never the null value: directive
	// processing fails the invocation before building a node without one.
	Spec spec.Value

	// Alt is optional human-readable alt text.
	Alt string
}

// Kind implements ast.Node.
func (n *ChartEmbed) Kind() ast.NodeKind { return KindChartEmbed }

// Dump implements ast.Node.
func (n *ChartEmbed) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"TargetID": n.TargetID,
		"DivID":    n.DivID,
		"RelPath":  n.RelPath,
		"Alt":      n.Alt,
	}, nil)
}

// ArtifactName returns the artifact filename for this chart.
func (n *ChartEmbed) ArtifactName() string {
	return n.DivID + ".vl.json"
}
