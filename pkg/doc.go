// Package pkg provides the core libraries for vegadoc documentation builds.
//
// # Overview
//
// Vegadoc turns Markdown pages with embedded chart snippets into a
// documentation site whose plots render client-side with Vega-Lite.
// The pkg directory is organized into five main areas:
//
//  1. [snippet] - Snippet execution (HCL statements plus a final expression)
//  2. [spec] - Chart specification values and JSON serialization
//  3. [directive] - The altair-plot goldmark extension
//  4. [render] - Per-format rendering of chart nodes and pages
//  5. [build] - The build runner, sessions, and page discovery
//
// Supporting packages: [project] loads vegadoc.toml configuration,
// [errors] defines the structured error codes shared across the
// pipeline, and [buildinfo] carries ldflags version data.
//
// # Architecture
//
// The typical data flow through a build:
//
//	Markdown page with altair-plot fences
//	         ↓
//	    [directive] package (execute snippet via [snippet], emit chart nodes)
//	         ↓
//	    [render] package (per-format: embed markup + artifact, or placeholder)
//	         ↓
//	    [build] package (page discovery, output tree, timings)
//	         ↓
//	    HTML/text output plus *.vl.json artifacts
//
// # Quick Start
//
// Build a project programmatically:
//
//	import (
//	    "context"
//	    "github.com/vegadoc/vegadoc/pkg/build"
//	    "github.com/vegadoc/vegadoc/pkg/project"
//	)
//
//	p, err := project.Load("vegadoc.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := build.NewRunner(logger).Run(context.Background(), p)
//	if err != nil {
//	    return err
//	}
//
// Evaluate a single snippet without a build:
//
//	import "github.com/vegadoc/vegadoc/pkg/snippet"
//
//	chartSpec, err := snippet.Eval(`{mark: "bar", width: 400}`)
package pkg
