// Package directive implements the altair-plot goldmark extension.
//
// Pages embed executable chart snippets as fenced code blocks whose
// info string starts with the directive name:
//
//	```altair-plot show-json alt="monthly totals"
//	values = [{x: "a", y: 2}, {x: "b", y: 7}]
//	{mark: "bar", data: {values: values}}
//	```
//
// During parsing, an AST transformer executes each snippet and
// replaces the fence with the directive's node sequence: an anchor
// node first, then the plot node and the optional source/JSON
// listings, ordered by the code-below option. Rendering of those nodes is
// format-specific and lives in pkg/render.
//
// # Options
//
//   - show-json: also emit the pretty-printed specification as a
//     JSON listing (default off)
//   - hide-code: suppress the source listing (default: shown)
//   - code-below: place the plot after the listings (default: the
//     plot sits above them)
//   - alt="...": alt text used by static output formats
//
// Snippet failures are recorded in the parser context and abort the
// page build; no plot node is produced for a failed invocation.
package directive

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/vegadoc/vegadoc/pkg/snippet"
)

// Name is the directive name recognized in fence info strings.
const Name = "altair-plot"

// listingLanguage tags source listings for highlighting.
const listingLanguage = "hcl"

// Sequencer allocates per-build serial numbers. Serials must be
// unique and monotonically increasing within one build; they are not
// stable across builds.
type Sequencer interface {
	NextSerial() int
}

// Context keys for per-page data supplied by the build runner.
var (
	sourcePathKey = parser.NewContextKey()
	relPathKey    = parser.NewContextKey()
	errKey        = parser.NewContextKey()
)

// SetSourcePath records the page file being parsed.
func SetSourcePath(pc parser.Context, path string) {
	pc.Set(sourcePathKey, path)
}

// SetRelPath records the page's directory relative to the docs root.
func SetRelPath(pc parser.Context, rel string) {
	pc.Set(relPathKey, rel)
}

// TransformError returns the error recorded during directive
// processing for this parse, or nil.
func TransformError(pc parser.Context) error {
	if err, ok := pc.Get(errKey).(error); ok {
		return err
	}
	return nil
}

// Extension wires the directive into a goldmark instance.
type Extension struct {
	seq Sequencer
}

// New creates the extension. Serial numbers come from seq, typically
// the current build session.
func New(seq Sequencer) *Extension {
	return &Extension{seq: seq}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&transformer{seq: e.seq}, 500),
	))
}

// transformer replaces altair-plot fences with directive node sequences.
type transformer struct {
	seq Sequencer
}

// Transform implements parser.ASTTransformer. goldmark transformers
// cannot return errors, so the first failure is stashed in the parser
// context for the build runner to surface, and the walk stops.
func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	src := reader.Source()

	var fences []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fence, ok := n.(*ast.FencedCodeBlock); ok && isDirective(fence, src) {
			fences = append(fences, fence)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, fence := range fences {
		if err := t.process(fence, src, pc); err != nil {
			pc.Set(errKey, err)
			return
		}
	}
}

// process turns one fence into the directive's node sequence.
func (t *transformer) process(fence *ast.FencedCodeBlock, src []byte, pc parser.Context) error {
	sourcePath, _ := pc.Get(sourcePathKey).(string)
	relPath, _ := pc.Get(relPathKey).(string)
	line := fenceLine(fence, src)

	opts, err := parseOptions(optionString(fence, src))
	if err != nil {
		return fmt.Errorf("%s:%d: %w", sourcePath, line, err)
	}

	code := fenceCode(fence, src)
	chartSpec, err := snippet.Eval(code)
	if err != nil {
		return fmt.Errorf("%s:%d: %w", sourcePath, line, err)
	}

	// Identifiers derive from the page basename plus a per-build
	// serial; unique within a build, not stable across builds.
	base := strings.ReplaceAll(filepath.Base(sourcePath), ".", "-")
	serial := t.seq.NextSerial()
	targetID := fmt.Sprintf("%s-altair-source-%d", base, serial)
	divID := fmt.Sprintf("%s-altair-plot-%d", base, serial)

	var source *ChartListing
	if !opts.HideCode {
		source = NewChartListing(listingLanguage, code)
	}

	var jsonListing *ChartListing
	if opts.ShowJSON {
		pretty, err := chartSpec.MarshalIndent("  ")
		if err != nil {
			return fmt.Errorf("%s:%d: serializing specification: %w", sourcePath, line, err)
		}
		jsonListing = NewChartListing("json", string(pretty))
	}

	embed := &ChartEmbed{
		TargetID:   targetID,
		DivID:      divID,
		Source:     source,
		RelPath:    relPath,
		SourcePath: sourcePath,
		Line:       line,
		Spec:       chartSpec,
		Alt:        opts.Alt,
	}

	// Anchor first, always. By default the plot sits above the
	// listings; code-below moves it after them.
	seq := []ast.Node{NewChartTarget(targetID)}
	if !opts.CodeBelow {
		seq = append(seq, embed)
	}
	if source != nil {
		seq = append(seq, source)
	}
	if jsonListing != nil {
		seq = append(seq, jsonListing)
	}
	if opts.CodeBelow {
		seq = append(seq, embed)
	}

	parent := fence.Parent()
	for _, n := range seq {
		parent.InsertBefore(parent, fence, n)
	}
	parent.RemoveChild(parent, fence)

	return nil
}

// isDirective reports whether a fence's info string names this directive.
func isDirective(fence *ast.FencedCodeBlock, src []byte) bool {
	info := infoString(fence, src)
	if !strings.HasPrefix(info, Name) {
		return false
	}
	rest := info[len(Name):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// infoString returns the full fence info string.
func infoString(fence *ast.FencedCodeBlock, src []byte) string {
	if fence.Info == nil {
		return ""
	}
	return string(fence.Info.Segment.Value(src))
}

// optionString returns the info string with the directive name removed.
func optionString(fence *ast.FencedCodeBlock, src []byte) string {
	return strings.TrimSpace(strings.TrimPrefix(infoString(fence, src), Name))
}

// fenceCode joins the fence's content lines into one code block text.
func fenceCode(fence *ast.FencedCodeBlock, src []byte) string {
	var sb strings.Builder
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// fenceLine returns the 1-based line number of the fence opener.
func fenceLine(fence *ast.FencedCodeBlock, src []byte) int {
	offset := 0
	if fence.Info != nil {
		offset = fence.Info.Segment.Start
	} else if fence.Lines().Len() > 0 {
		offset = fence.Lines().At(0).Start
	}
	if offset > len(src) {
		offset = len(src)
	}
	line := 1
	for _, b := range src[:offset] {
		if b == '\n' {
			line++
		}
	}
	return line
}
