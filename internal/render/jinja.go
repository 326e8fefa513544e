package render

import (
	"bytes"
	"io"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var disableAutoescape sync.Once

// jinjaEngine renders Jinja-style templates with pongo2. The template set is
// created on first use because pongo2's loader requires the base directory to
// exist, and a missing directory must surface as ErrTemplateNotFound instead.
type jinjaEngine struct {
	dir string

	once   sync.Once
	set    *pongo2.TemplateSet
	setErr error
}

func newJinjaEngine(dir string) *jinjaEngine {
	// Config files are not HTML.
	disableAutoescape.Do(func() { pongo2.SetAutoescape(false) })

	return &jinjaEngine{dir: dir}
}

func (e *jinjaEngine) templateSet() (*pongo2.TemplateSet, error) {
	e.once.Do(func() {
		loader, err := pongo2.NewLocalFileSystemLoader(e.dir)
		if err != nil {
			e.setErr = err
			return
		}
		e.set = pongo2.NewSet("confgen", trimmingLoader{loader})
	})
	return e.set, e.setErr
}

// compile parses the template through the set's loader so that include and
// extends tags resolve relative to the template directory.
func (e *jinjaEngine) compile(name string, src []byte) (compiled, error) {
	set, err := e.templateSet()
	if err != nil {
		return nil, err
	}

	tpl, err := set.FromFile(name)
	if err != nil {
		return nil, err
	}
	return &jinjaTemplate{tpl: tpl, src: string(src)}, nil
}

// trimmingLoader drops a single trailing newline from every template it loads,
// included ones too, the way Jinja does by default.
type trimmingLoader struct {
	*pongo2.LocalFilesystemLoader
}

func (l trimmingLoader) Get(path string) (io.Reader, error) {
	r, err := l.LocalFilesystemLoader.Get(path)
	if err != nil {
		return nil, err
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(trimTrailingNewline(src)), nil
}

func trimTrailingNewline(src []byte) []byte {
	if out, ok := bytes.CutSuffix(src, []byte("\r\n")); ok {
		return out
	}
	out, _ := bytes.CutSuffix(src, []byte("\n"))
	return out
}

type jinjaTemplate struct {
	tpl *pongo2.Template
	src string
}

func (t *jinjaTemplate) execute(vars map[string]any) ([]byte, error) {
	if err := checkUndefined(t.src, vars); err != nil {
		return nil, err
	}
	return t.tpl.ExecuteBytes(pongo2.Context(vars))
}
