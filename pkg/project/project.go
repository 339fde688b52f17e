// Package project loads and validates vegadoc project configuration.
//
// A project is a directory containing a vegadoc.toml file and a source
// tree of Markdown pages:
//
//	[site]
//	title = "My Docs"
//
//	[build]
//	source = "docs"
//	output = "site"
//	formats = ["html", "text"]
//
//	[charts]
//	scripts = ["https://example.com/vega.js"]
//
// Every field is optional; Load on a missing file yields the defaults.
package project

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/vegadoc/vegadoc/pkg/errors"
	"github.com/vegadoc/vegadoc/pkg/render"
)

// Filename is the project configuration filename.
const Filename = "vegadoc.toml"

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultSource = "docs"
	DefaultOutput = "site"
	DefaultTitle  = "Documentation"
)

// Project is the configuration for one documentation build.
type Project struct {
	Site   Site   `toml:"site"`
	Build  Build  `toml:"build"`
	Charts Charts `toml:"charts"`

	// root is the project directory; relative paths resolve against it.
	root string

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Site holds site-wide presentation settings.
type Site struct {
	Title string `toml:"title"`
}

// Build holds source/output locations and the requested formats.
type Build struct {
	Source  string   `toml:"source"`
	Output  string   `toml:"output"`
	Formats []string `toml:"formats"`
}

// Charts holds chart-rendering settings.
type Charts struct {
	// Scripts overrides the runtime script URLs in embed markup.
	Scripts []string `toml:"scripts"`
}

// Default returns the default project rooted at dir.
func Default(dir string) Project {
	p := Project{root: dir}
	_ = p.ValidateAndSetDefaults()
	return p
}

// Load reads the project file at path. A missing file is not an error:
// the defaults rooted at the file's directory are returned.
func Load(path string) (Project, error) {
	root := filepath.Dir(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(root), nil
	}

	var p Project
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Project{}, errors.Wrap(errors.ErrCodeInvalidProject, err, "loading %s", path)
	}
	p.root = root

	if err := p.ValidateAndSetDefaults(); err != nil {
		return Project{}, err
	}
	return p, nil
}

// ValidateAndSetDefaults checks fields and applies defaults. This
// method is idempotent.
func (p *Project) ValidateAndSetDefaults() error {
	if p.validated {
		return nil
	}

	if p.Site.Title == "" {
		p.Site.Title = DefaultTitle
	}
	if p.Build.Source == "" {
		p.Build.Source = DefaultSource
	}
	if p.Build.Output == "" {
		p.Build.Output = DefaultOutput
	}
	if len(p.Build.Formats) == 0 {
		p.Build.Formats = []string{string(render.FormatHTML)}
	}

	for _, f := range p.Build.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}

	p.validated = true
	return nil
}

// Root returns the project directory.
func (p Project) Root() string { return p.root }

// SourceDir returns the absolute docs source directory.
func (p Project) SourceDir() string { return p.abs(p.Build.Source) }

// OutputDir returns the absolute build output directory.
func (p Project) OutputDir() string { return p.abs(p.Build.Output) }

// Formats returns the requested output formats.
func (p Project) Formats() []render.Format {
	out := make([]render.Format, len(p.Build.Formats))
	for i, f := range p.Build.Formats {
		out[i] = render.Format(f)
	}
	return out
}

func (p Project) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.root, path)
}
