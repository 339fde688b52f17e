package render

import (
	"encoding/json"
	"html"
	"os"
	"path/filepath"
	"text/template"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/vegadoc/vegadoc/pkg/directive"
	"github.com/vegadoc/vegadoc/pkg/errors"
	"github.com/vegadoc/vegadoc/pkg/spec"
)

// embedMode is the fixed mode tag of the artifact payload.
const embedMode = "vega-lite"

// embedTemplate renders the container div and the runtime invocation.
// The artifact is referenced by relative filename; no specification
// content is inlined into the page.
var embedTemplate = template.Must(template.New("embed").Parse(`<div id="{{.DivID}}">
{{- range .Scripts}}
<script src="{{.}}"></script>
{{- end}}
<script>
  vg.embed("#{{.DivID}}", "{{.Filename}}", function(error, result) {});
</script>
</div>
`))

// embedPayload is the artifact file content: the fixed mode tag plus
// the full specification tree verbatim.
type embedPayload struct {
	Mode string     `json:"mode"`
	Spec spec.Value `json:"spec"`
}

// chartHTMLRenderer renders directive nodes for HTML output. Each
// ChartEmbed it visits causes one artifact file write under the output
// root. Write failures are fatal to the build; there is no fallback to
// the placeholder path.
type chartHTMLRenderer struct {
	cfg Config
}

func newChartHTMLRenderer(cfg Config) renderer.NodeRenderer {
	return &chartHTMLRenderer{cfg: cfg}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *chartHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(directive.KindChartTarget, r.renderTarget)
	reg.Register(directive.KindChartListing, r.renderListing)
	reg.Register(directive.KindChartEmbed, r.renderEmbed)
}

func (r *chartHTMLRenderer) renderTarget(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*directive.ChartTarget)
	_, _ = w.WriteString(`<span id="` + html.EscapeString(n.TargetID) + `"></span>` + "\n")
	return ast.WalkSkipChildren, nil
}

func (r *chartHTMLRenderer) renderListing(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*directive.ChartListing)
	_, _ = w.WriteString(`<pre><code class="language-` + html.EscapeString(n.Language) + `">`)
	_, _ = w.WriteString(html.EscapeString(n.Code))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

func (r *chartHTMLRenderer) renderEmbed(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*directive.ChartEmbed)

	if err := r.writeArtifact(n); err != nil {
		return ast.WalkStop, err
	}

	err := embedTemplate.Execute(w, map[string]any{
		"DivID":    n.DivID,
		"Filename": n.ArtifactName(),
		"Scripts":  r.cfg.scripts(),
	})
	if err != nil {
		return ast.WalkStop, errors.Wrap(errors.ErrCodeInternal, err, "rendering embed markup")
	}
	return ast.WalkSkipChildren, nil
}

// writeArtifact serializes the embed payload and writes it to the
// output directory mirroring the page's location. Existing files are
// overwritten; the write is not transactional.
func (r *chartHTMLRenderer) writeArtifact(n *directive.ChartEmbed) error {
	payload, err := json.Marshal(embedPayload{Mode: embedMode, Spec: n.Spec})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "serializing embed payload for %s", n.DivID)
	}

	destDir := filepath.Join(r.cfg.OutDir, n.RelPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "creating artifact directory %s", destDir)
	}

	destPath := filepath.Join(destDir, n.ArtifactName())
	if err := os.WriteFile(destPath, payload, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "writing artifact %s", destPath)
	}
	return nil
}
