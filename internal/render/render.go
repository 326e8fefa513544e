package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrTemplateNotFound is returned when the template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrUndefinedVariable is returned when a template prints a variable
	// that was not supplied.
	ErrUndefinedVariable = errors.New("undefined variable")
)

// engine compiles template source into something that can be executed.
type engine interface {
	compile(name string, src []byte) (compiled, error)
}

// compiled is a parsed template ready to execute.
type compiled interface {
	execute(vars map[string]any) ([]byte, error)
}

// Renderer loads templates from a directory and renders them with caching.
type Renderer struct {
	dir     string
	engines map[string]engine
	cache   map[string]compiled
	mu      sync.RWMutex // Protect cache for concurrent access
}

// New creates a renderer that resolves template names relative to dir.
func New(dir string) *Renderer {
	jinja := newJinjaEngine(dir)
	gotmpl := newTextEngine()

	return &Renderer{
		dir: dir,
		engines: map[string]engine{
			".j2":     jinja,
			".jinja":  jinja,
			".jinja2": jinja,
			".tmpl":   gotmpl,
			".tpl":    gotmpl,
			".gotmpl": gotmpl,
			"":        jinja,
		},
		cache: make(map[string]compiled),
	}
}

// Render renders the named template with vars.
func (r *Renderer) Render(name string, vars map[string]any) ([]byte, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()

	if !ok {
		var err error
		tmpl, err = r.load(name)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[name] = tmpl
		r.mu.Unlock()
	}

	out, err := tmpl.execute(vars)
	if err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", name, err)
	}
	return out, nil
}

// ClearCache clears the template cache (useful for testing)
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]compiled)
}

// load reads and compiles a template from disk.
func (r *Renderer) load(name string) (compiled, error) {
	path := filepath.Join(r.dir, name)

	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("failed to read template file '%s': %w", path, err)
	}

	tmpl, err := r.engineFor(name).compile(name, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}
	return tmpl, nil
}

func (r *Renderer) engineFor(name string) engine {
	if e, ok := r.engines[strings.ToLower(filepath.Ext(name))]; ok {
		return e
	}
	return r.engines[""]
}
