package directive

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/vegadoc/vegadoc/pkg/errors"
	"github.com/vegadoc/vegadoc/pkg/snippet"
)

// fakeSeq is a test sequencer counting from zero.
type fakeSeq struct{ n int }

func (s *fakeSeq) NextSerial() int {
	v := s.n
	s.n++
	return v
}

const snippetBody = `x = 2
{mark: "bar", width: x}`

func page(opts string) string {
	var sb strings.Builder
	sb.WriteString("# Charts\n\nSome prose.\n\n")
	sb.WriteString("```" + Name)
	if opts != "" {
		sb.WriteString(" " + opts)
	}
	sb.WriteString("\n" + snippetBody + "\n```\n")
	return sb.String()
}

// parsePage runs a page through goldmark with the extension installed
// and returns the document plus any recorded directive error.
func parsePage(t *testing.T, source string, seq Sequencer) (*ast.Document, error) {
	t.Helper()

	md := goldmark.New(goldmark.WithExtensions(New(seq)))
	pc := parser.NewContext()
	SetSourcePath(pc, "/docs/guide/charts.md")
	SetRelPath(pc, "guide")

	doc := md.Parser().Parse(text.NewReader([]byte(source)), parser.WithContext(pc))
	d, ok := doc.(*ast.Document)
	if !ok {
		t.Fatalf("parse returned %T, want *ast.Document", doc)
	}
	return d, TransformError(pc)
}

// directiveNodes returns the directive-produced nodes in document order.
func directiveNodes(doc *ast.Document) []ast.Node {
	var out []ast.Node
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.Kind() {
		case KindChartTarget, KindChartListing, KindChartEmbed:
			out = append(out, n)
		}
	}
	return out
}

func findEmbed(t *testing.T, nodes []ast.Node) *ChartEmbed {
	t.Helper()
	for _, n := range nodes {
		if e, ok := n.(*ChartEmbed); ok {
			return e
		}
	}
	t.Fatal("no embed node in sequence")
	return nil
}

func kinds(nodes []ast.Node) []ast.NodeKind {
	out := make([]ast.NodeKind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind()
	}
	return out
}

func TestDefaultSequence(t *testing.T) {
	doc, err := parsePage(t, page(""), &fakeSeq{})
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}

	nodes := directiveNodes(doc)
	// Default order: anchor, then the plot, then the source listing.
	want := []ast.NodeKind{KindChartTarget, KindChartEmbed, KindChartListing}
	got := kinds(nodes)
	if len(got) != len(want) {
		t.Fatalf("node kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("node kinds = %v, want %v", got, want)
		}
	}

	embed := nodes[1].(*ChartEmbed)
	if embed.TargetID != "charts-md-altair-source-0" {
		t.Errorf("TargetID = %q", embed.TargetID)
	}
	if embed.DivID != "charts-md-altair-plot-0" {
		t.Errorf("DivID = %q", embed.DivID)
	}
	if embed.RelPath != "guide" {
		t.Errorf("RelPath = %q", embed.RelPath)
	}
	if embed.Spec.IsNull() {
		t.Error("embed carries a null specification")
	}
	if width, ok := embed.Spec.Field("width"); !ok || width.Number() != 2 {
		t.Errorf("spec width = %v, want 2", width)
	}
	if embed.Line != 5 {
		t.Errorf("Line = %d, want 5", embed.Line)
	}

	// The source listing reproduces the exact snippet text and is
	// referenced from the embed node.
	listing := nodes[2].(*ChartListing)
	if listing.Code != snippetBody {
		t.Errorf("listing code = %q, want %q", listing.Code, snippetBody)
	}
	if embed.Source != listing {
		t.Error("embed.Source does not point at the rendered listing")
	}
}

func TestCodeBelow(t *testing.T) {
	doc, err := parsePage(t, page("code-below show-json"), &fakeSeq{})
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}

	got := kinds(directiveNodes(doc))
	// code-below: listings first, the plot after them; the json
	// listing stays adjacent to the code listing.
	want := []ast.NodeKind{KindChartTarget, KindChartListing, KindChartListing, KindChartEmbed}
	if len(got) != len(want) {
		t.Fatalf("node kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("node kinds = %v, want %v", got, want)
		}
	}
}

func TestHideCode(t *testing.T) {
	doc, err := parsePage(t, page("hide-code"), &fakeSeq{})
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}

	nodes := directiveNodes(doc)
	for _, n := range nodes {
		if n.Kind() == KindChartListing {
			t.Fatal("hide-code page still contains a listing node")
		}
	}
	embed := findEmbed(t, nodes)
	if embed.Source != nil {
		t.Error("embed.Source should be nil with hide-code")
	}
}

func TestShowJSONSerializesSpecification(t *testing.T) {
	// Regression: the JSON listing must hold the pretty-printed
	// specification, not some other value.
	doc, err := parsePage(t, page("show-json"), &fakeSeq{})
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}

	nodes := directiveNodes(doc)
	got := kinds(nodes)
	want := []ast.NodeKind{KindChartTarget, KindChartEmbed, KindChartListing, KindChartListing}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("node kinds = %v, want %v", got, want)
		}
	}

	chartSpec, err := snippet.Eval(snippetBody)
	if err != nil {
		t.Fatalf("snippet.Eval: %v", err)
	}
	pretty, err := chartSpec.MarshalIndent("  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}

	jsonListing := nodes[3].(*ChartListing)
	if jsonListing.Language != "json" {
		t.Errorf("json listing language = %q", jsonListing.Language)
	}
	if jsonListing.Code != string(pretty) {
		t.Errorf("json listing = %q, want %q", jsonListing.Code, pretty)
	}
}

func TestAltText(t *testing.T) {
	doc, err := parsePage(t, page(`alt="monthly totals"`), &fakeSeq{})
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}
	embed := findEmbed(t, directiveNodes(doc))
	if embed.Alt != "monthly totals" {
		t.Errorf("Alt = %q", embed.Alt)
	}
}

func TestSerialsIncreaseAcrossInvocations(t *testing.T) {
	source := page("") + "\nMore prose.\n\n" + page("")
	seq := &fakeSeq{}
	doc, err := parsePage(t, source, seq)
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}

	var embeds []*ChartEmbed
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if e, ok := n.(*ChartEmbed); ok {
			embeds = append(embeds, e)
		}
	}
	if len(embeds) != 2 {
		t.Fatalf("embeds = %d, want 2", len(embeds))
	}
	if embeds[0].DivID == embeds[1].DivID {
		t.Error("div ids collide across invocations")
	}
	if embeds[0].DivID != "charts-md-altair-plot-0" || embeds[1].DivID != "charts-md-altair-plot-1" {
		t.Errorf("div ids = %q, %q", embeds[0].DivID, embeds[1].DivID)
	}
}

func TestSnippetFailureRecordsError(t *testing.T) {
	bad := "```" + Name + "\nx = 1\ny = 2\n```\n"
	doc, err := parsePage(t, bad, &fakeSeq{})
	if err == nil {
		t.Fatal("expected transform error for non-expression final statement")
	}
	if !errors.Is(err, errors.ErrCodeSyntax) {
		t.Errorf("code = %q, want SYNTAX_ERROR (err: %v)", errors.GetCode(err), err)
	}
	if !strings.Contains(err.Error(), "charts.md") {
		t.Errorf("error should name the page: %v", err)
	}
	if nodes := directiveNodes(doc); len(nodes) != 0 {
		t.Errorf("failed invocation produced %d nodes, want 0", len(nodes))
	}
}

func TestOrdinaryFencesUntouched(t *testing.T) {
	source := "```go\nfmt.Println(1)\n```\n"
	doc, err := parsePage(t, source, &fakeSeq{})
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}
	if nodes := directiveNodes(doc); len(nodes) != 0 {
		t.Errorf("plain fence produced %d directive nodes", len(nodes))
	}
	found := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*ast.FencedCodeBlock); ok {
			found = true
		}
	}
	if !found {
		t.Error("plain fenced block was removed")
	}
}
