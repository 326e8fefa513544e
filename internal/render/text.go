package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"
)

// textEngine renders Go text/template files.
type textEngine struct {
	funcMap template.FuncMap
}

func newTextEngine() *textEngine {
	return &textEngine{funcMap: defaultFuncMap()}
}

func (e *textEngine) compile(name string, src []byte) (compiled, error) {
	tmpl, err := template.New(name).
		Funcs(e.funcMap).
		Option("missingkey=error").
		Parse(string(src))
	if err != nil {
		return nil, err
	}
	return &textTemplate{tmpl: tmpl}, nil
}

type textTemplate struct {
	tmpl *template.Template
}

func (t *textTemplate) execute(vars map[string]any) ([]byte, error) {
	// An empty render still yields a non-nil slice.
	buf := bytes.NewBuffer(make([]byte, 0, 512))
	if err := t.tmpl.Execute(buf, vars); err != nil {
		if strings.Contains(err.Error(), "map has no entry for key") {
			return nil, fmt.Errorf("%w: %v", ErrUndefinedVariable, err)
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// defaultFuncMap returns the helper functions available to Go templates.
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     Title,
		"trim":      strings.TrimSpace,
		"replace":   strings.ReplaceAll,
		"quote":     Quote,
		"default":   Default,
		"join":      strings.Join,
		"split":     strings.Split,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
	}
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Title converts a string to title case (first letter of each word capitalized)
func Title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
	}
	return strings.Join(words, " ")
}

// Default returns defaultVal when val is nil, an empty string, or an empty
// collection. Numeric zero is a real value and is returned as-is.
func Default(defaultVal, val any) any {
	switch v := val.(type) {
	case nil:
		return defaultVal
	case string:
		if v == "" {
			return defaultVal
		}
	case []any:
		if len(v) == 0 {
			return defaultVal
		}
	case map[string]any:
		if len(v) == 0 {
			return defaultVal
		}
	}
	return val
}
