// Package render turns directive nodes into per-format output.
//
// Every chart node is rendered in exactly one of two ways, selected by
// the active output format:
//
//   - Interactive embed (HTML): the specification is serialized to a
//     side-channel artifact file next to the page, and the page gets a
//     container div plus script tags that load the vega runtime and
//     point it at the artifact.
//   - Static placeholder (all other formats): a short bracketed
//     placeholder, using the chart's alt text when present.
//
// A format registry table maps format names to goldmark wiring, so
// adding an output format is one table entry.
package render

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/vegadoc/vegadoc/pkg/errors"
)

// Format names an output format family.
type Format string

// Supported output formats.
const (
	// FormatHTML renders pages as HTML with interactive embeds.
	FormatHTML Format = "html"

	// FormatText renders pages as plain text with placeholders.
	FormatText Format = "text"
)

// DefaultScripts are the runtime script URLs referenced by the embed
// markup. Projects may override them in vegadoc.toml.
var DefaultScripts = []string{
	"https://d3js.org/d3.v3.min.js",
	"https://vega.github.io/vega/vega.js",
	"https://vega.github.io/vega-lite/vega-lite.js",
	"https://vega.github.io/vega-editor/vendor/vega-embed.js",
}

// Config carries the per-build settings renderers need.
type Config struct {
	// OutDir is the absolute output root; artifact files are written
	// under it, mirroring each page's directory.
	OutDir string

	// Scripts are the runtime script URLs for the embed markup.
	// Empty means DefaultScripts.
	Scripts []string
}

// scripts returns the configured or default script URLs.
func (c Config) scripts() []string {
	if len(c.Scripts) > 0 {
		return c.Scripts
	}
	return DefaultScripts
}

// formatEntry wires one format: how pages are rendered and which
// chart renderer handles directive nodes.
type formatEntry struct {
	extension string
	options   func(Config) []goldmark.Option
}

// registry maps formats to their wiring. The HTML entry keeps
// goldmark's own page renderer and appends the chart renderer; static
// entries replace the page renderer wholesale.
var registry = map[Format]formatEntry{
	FormatHTML: {
		extension: ".html",
		options: func(cfg Config) []goldmark.Option {
			return []goldmark.Option{
				goldmark.WithRendererOptions(renderer.WithNodeRenderers(
					util.Prioritized(newChartHTMLRenderer(cfg), 500),
				)),
			}
		},
	},
	FormatText: {
		extension: ".txt",
		options: func(cfg Config) []goldmark.Option {
			return []goldmark.Option{
				goldmark.WithRenderer(renderer.NewRenderer(renderer.WithNodeRenderers(
					util.Prioritized(newTextRenderer(), 100),
				))),
			}
		},
	},
}

// ValidateFormat checks that a format name is supported.
func ValidateFormat(format string) error {
	if _, ok := registry[Format(format)]; !ok {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: html, text)", format)
	}
	return nil
}

// PageExtension returns the page filename extension for a format.
func PageExtension(f Format) string {
	return registry[f].extension
}

// GoldmarkOptions returns the goldmark options wiring a format's page
// and chart rendering.
func GoldmarkOptions(f Format, cfg Config) ([]goldmark.Option, error) {
	entry, ok := registry[f]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", f)
	}
	return entry.options(cfg), nil
}

// Interactive reports whether a format renders live embeds.
func (f Format) Interactive() bool {
	return f == FormatHTML
}

// String implements fmt.Stringer.
func (f Format) String() string { return string(f) }

var _ fmt.Stringer = FormatHTML
