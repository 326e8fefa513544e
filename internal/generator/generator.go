// Package generator turns a ConfigRequest into a rendered configuration file.
//
// One run validates the request, renders the template, optionally diffs the
// result against the current output file, and writes it atomically:
//
//	gen := generator.New(generator.Options{Dir: "configs", Template: "config.j2"})
//	res, err := gen.Generate(ctx, req, generator.RunOptions{})
//	fmt.Println(res.Path) // configs/3.1.4-us-east-1-ubuntu2004.config
package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"

	"github.com/simonhull/confgen/internal/config"
	"github.com/simonhull/confgen/internal/diff"
	"github.com/simonhull/confgen/internal/logger"
	"github.com/simonhull/confgen/internal/render"
	"github.com/simonhull/confgen/internal/request"
	"github.com/simonhull/confgen/internal/writer"
)

// Options configures a Generator. Zero values fall back to confgen's defaults.
type Options struct {
	Dir       string         // template and output directory
	Template  string         // template file name inside Dir
	Extension string         // output file extension, including the dot
	Mode      fs.FileMode    // output file permissions
	Vars      map[string]any // extra template variables; request values win
	Logger    logger.Logger
}

// RunOptions controls a single Generate call.
type RunOptions struct {
	DryRun bool // validate the write but leave the file system untouched
	Diff   bool // compare against the existing output file
}

// Result describes what a Generate call produced.
type Result struct {
	Path    string
	Content []byte
	Diff    string // empty when Diff was not requested or nothing changed
	Written bool
}

// Generator renders and writes configuration files.
type Generator struct {
	opts     Options
	renderer *render.Renderer
	log      logger.Logger
}

// New creates a generator with the given options.
func New(opts Options) *Generator {
	if opts.Dir == "" {
		opts.Dir = config.DefaultConfigDir
	}
	if opts.Template == "" {
		opts.Template = config.DefaultTemplate
	}
	if opts.Extension == "" {
		opts.Extension = config.DefaultExtension
	}
	if opts.Mode == 0 {
		opts.Mode = 0o644
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	return &Generator{
		opts:     opts,
		renderer: render.New(opts.Dir),
		log:      opts.Logger.WithFields(logger.F("template", opts.Template)),
	}
}

// OutputPath returns where the file for req is written.
func (g *Generator) OutputPath(req request.ConfigRequest) string {
	return filepath.Join(g.opts.Dir, req.FileName(g.opts.Extension))
}

// Generate renders the template for req and writes the result.
// Nothing is written unless rendering succeeds.
func (g *Generator) Generate(ctx context.Context, req request.ConfigRequest, opts RunOptions) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Path: g.OutputPath(req)}
	log := g.log.WithFields(logger.F("path", res.Path))

	vars := make(map[string]any, len(g.opts.Vars)+3)
	maps.Copy(vars, g.opts.Vars)
	maps.Copy(vars, req.Vars())

	log.Debug("rendering template", logger.F("dir", g.opts.Dir))
	content, err := g.renderer.Render(g.opts.Template, vars)
	if err != nil {
		return nil, err
	}
	res.Content = content
	log.Debug("rendered template", logger.F("bytes", len(content)))

	if opts.Diff {
		d, err := g.diffExisting(res.Path, content)
		if err != nil {
			return nil, err
		}
		res.Diff = d
	}

	op := &writer.WriteFileOp{Path: res.Path, Content: content, Mode: g.opts.Mode}
	if err := writer.Execute(ctx, []writer.Operation{op}, writer.ExecuteOptions{
		DryRun: opts.DryRun,
		Logger: log,
	}); err != nil {
		return nil, err
	}
	res.Written = !opts.DryRun

	return res, nil
}

// diffExisting compares content with the file already at path. A missing file
// diffs as empty, so every line shows as added.
func (g *Generator) diffExisting(path string, content []byte) (string, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading existing output: %w", err)
	}
	return diff.Unified(path, path+" (rendered)", existing, content, nil), nil
}
