// Package render turns a template file plus a set of variables into text.
//
// # Engines
//
// The engine is picked from the template's extension:
//
//   - .j2, .jinja, .jinja2 (and anything unrecognised): Jinja syntax via pongo2
//   - .tmpl, .tpl, .gotmpl: Go text/template with helper functions
//
// Both engines fail on undefined variables instead of rendering an empty
// string, so a typo in a template never produces a silently broken config.
//
//	r := render.New("configs")
//	out, err := r.Render("config.j2", map[string]any{"version": "3.1.4"})
package render
