// Package build runs the documentation build.
//
// A build walks the project's Markdown source tree and converts every
// page once per requested output format. Pages are processed in
// document order, one at a time: there is no parallelism, no caching,
// and no timeout. Every chart snippet is re-executed unconditionally
// on every run, and a non-terminating snippet blocks the build.
//
// The Session type carries the only mutable build state, a serial
// counter feeding unique chart identifiers. Each Run creates a fresh
// Session, so builds never leak state into each other.
//
// # Usage
//
//	runner := build.NewRunner(logger)
//	result, err := runner.Run(ctx, proj)
//	if err != nil {
//	    return err
//	}
//	logger.Info("built", "pages", result.Pages, "charts", result.Charts)
package build

import (
	"bytes"
	"context"
	"html"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/vegadoc/vegadoc/pkg/directive"
	"github.com/vegadoc/vegadoc/pkg/errors"
	"github.com/vegadoc/vegadoc/pkg/project"
	"github.com/vegadoc/vegadoc/pkg/render"
)

// pageTemplate wraps rendered HTML bodies in a minimal document shell.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} | {{.Site}}</title>
</head>
<body>
{{.Body}}</body>
</html>
`))

// Runner executes documentation builds. It is stateless between runs;
// all per-build state lives in the Session created by Run.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Logger: logger}
}

// Result contains the outputs of one build.
type Result struct {
	// Session is the build session that ran.
	Session *Session

	// Pages is the number of source pages discovered.
	Pages int

	// Charts is the number of directive invocations processed, summed
	// across formats (each format re-executes every snippet).
	Charts int

	// Formats lists the formats that were built.
	Formats []render.Format

	// Stats contains timing information.
	Stats Stats
}

// Stats contains build timing information.
type Stats struct {
	ScanTime    time.Duration
	ConvertTime time.Duration
	TotalTime   time.Duration
}

// Run builds the project. The first failing page aborts the build:
// snippet and artifact-write errors are never downgraded or retried.
func (r *Runner) Run(ctx context.Context, p project.Project) (*Result, error) {
	if err := p.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	session := NewSession()
	r.Logger.Info("starting build",
		"session", session.ID,
		"source", p.SourceDir(),
		"output", p.OutputDir(),
		"formats", p.Build.Formats)

	scanStart := time.Now()
	pages, err := discoverPages(p.SourceDir())
	if err != nil {
		return nil, err
	}
	scanTime := time.Since(scanStart)
	r.Logger.Debug("discovered pages", "count", len(pages), "duration", scanTime)

	convertStart := time.Now()
	for _, format := range p.Formats() {
		cfg := render.Config{OutDir: p.OutputDir(), Scripts: p.Charts.Scripts}
		opts, err := render.GoldmarkOptions(format, cfg)
		if err != nil {
			return nil, err
		}
		opts = append([]goldmark.Option{
			goldmark.WithExtensions(directive.New(session)),
		}, opts...)
		md := goldmark.New(opts...)

		for _, page := range pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := r.buildPage(md, p, format, page); err != nil {
				return nil, err
			}
		}
		r.Logger.Info("rendered pages", "format", format, "pages", len(pages))
	}
	convertTime := time.Since(convertStart)

	return &Result{
		Session: session,
		Pages:   len(pages),
		Charts:  session.Serials(),
		Formats: p.Formats(),
		Stats: Stats{
			ScanTime:    scanTime,
			ConvertTime: convertTime,
			TotalTime:   time.Since(session.Started),
		},
	}, nil
}

// buildPage converts one page in one format and writes it under the
// output root, mirroring the source tree. Artifact files are written
// as a side effect of rendering chart nodes.
func (r *Runner) buildPage(md goldmark.Markdown, p project.Project, format render.Format, rel string) error {
	srcPath := filepath.Join(p.SourceDir(), rel)
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "reading page %s", rel)
	}

	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProject, err, "page %s", rel)
	}

	relDir := filepath.Dir(rel)
	if relDir == "." {
		relDir = ""
	}

	pc := parser.NewContext()
	directive.SetSourcePath(pc, srcPath)
	directive.SetRelPath(pc, relDir)

	doc := md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))
	if err := directive.TransformError(pc); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, doc); err != nil {
		return err
	}

	out := buf.Bytes()
	if format == render.FormatHTML {
		var page bytes.Buffer
		err := pageTemplate.Execute(&page, map[string]any{
			"Title": html.EscapeString(pageTitle(meta, rel)),
			"Site":  html.EscapeString(p.Site.Title),
			"Body":  buf.String(),
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "rendering page shell for %s", rel)
		}
		out = page.Bytes()
	}

	outPath := filepath.Join(p.OutputDir(), pageStem(rel)+render.PageExtension(format))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "creating output directory for %s", rel)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "writing page %s", outPath)
	}

	r.Logger.Debug("wrote page", "page", rel, "format", format, "out", outPath)
	return nil
}

// discoverPages returns the Markdown pages under dir as sorted paths
// relative to dir.
func discoverPages(dir string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isMarkdown(path) {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			pages = append(pages, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "scanning %s", dir)
	}
	return pages, nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

// pageStem strips the Markdown extension from a relative page path.
func pageStem(rel string) string {
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// pageTitle picks the front matter title, falling back to the filename.
func pageTitle(meta pageMeta, rel string) string {
	if meta.Title != "" {
		return meta.Title
	}
	return pageStem(filepath.Base(rel))
}
