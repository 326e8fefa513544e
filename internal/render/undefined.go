package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const ident = `[A-Za-z_][A-Za-z0-9_]*`

var (
	commentRe  = regexp.MustCompile(`(?s)\{#.*?#\}`)
	verbatimRe = regexp.MustCompile(`(?s)\{%-?\s*verbatim\b.*?%\}.*?\{%-?\s*endverbatim\b.*?%\}`)
	printRe    = regexp.MustCompile(`(?s)\{\{-?\s*(.*?)\s*-?\}\}`)
	subjectRe  = regexp.MustCompile(`^(?:\(\s*|not\s+)*(` + ident + `)`)
	fallbackRe = regexp.MustCompile(`\|\s*default(?:_if_none)?\b`)
	leadingRe  = regexp.MustCompile(`^` + ident)
	forRe      = regexp.MustCompile(`\{%-?\s*for\s+(` + ident + `(?:\s*,\s*` + ident + `)*)\s+in\s`)
	setRe      = regexp.MustCompile(`\{%-?\s*set\s+(` + ident + `)`)
	withRe     = regexp.MustCompile(`(?s)\{%-?\s*with\s+(.*?)-?%\}`)
	assignRe   = regexp.MustCompile(`(` + ident + `)\s*=`)
	asRe       = regexp.MustCompile(`\bas\s+(` + ident + `)`)
	macroRe    = regexp.MustCompile(`\{%-?\s*macro\s+(` + ident + `)\s*\(([^)]*)\)`)
	identRe    = regexp.MustCompile(ident)
)

// builtins are names Jinja templates may print without them being supplied.
var builtins = map[string]bool{
	"true": true, "false": true, "True": true, "False": true,
	"none": true, "None": true, "nil": true,
	"forloop": true,
}

// checkUndefined reports variables printed with {{ name }} that are neither in
// vars nor bound inside the template by for, set, with or macro tags. Only the
// leading identifier of each print expression is checked; conditions are left
// alone so templates can still test for optional values with {% if %}, and a
// default filter marks the value as optional too.
func checkUndefined(src string, vars map[string]any) error {
	src = commentRe.ReplaceAllString(src, "")
	src = verbatimRe.ReplaceAllString(src, "")
	bound := boundNames(src)

	seen := map[string]bool{}
	var missing []string
	for _, m := range printRe.FindAllStringSubmatch(src, -1) {
		if fallbackRe.MatchString(m[1]) {
			continue
		}
		var name string
		if sm := subjectRe.FindStringSubmatch(m[1]); sm != nil {
			name = sm[1]
		}
		if name == "" || builtins[name] || bound[name] || seen[name] {
			continue
		}
		if _, ok := vars[name]; ok {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}

	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrUndefinedVariable, strings.Join(missing, ", "))
}

// boundNames collects names the template defines for itself.
func boundNames(src string) map[string]bool {
	bound := map[string]bool{}

	for _, m := range forRe.FindAllStringSubmatch(src, -1) {
		for _, name := range identRe.FindAllString(m[1], -1) {
			bound[name] = true
		}
	}
	for _, m := range setRe.FindAllStringSubmatch(src, -1) {
		bound[m[1]] = true
	}
	for _, m := range withRe.FindAllStringSubmatch(src, -1) {
		for _, a := range assignRe.FindAllStringSubmatch(m[1], -1) {
			bound[a[1]] = true
		}
		for _, a := range asRe.FindAllStringSubmatch(m[1], -1) {
			bound[a[1]] = true
		}
	}
	for _, m := range macroRe.FindAllStringSubmatch(src, -1) {
		bound[m[1]] = true
		for _, param := range strings.Split(m[2], ",") {
			if name := leadingRe.FindString(strings.TrimSpace(param)); name != "" {
				bound[name] = true
			}
		}
	}

	return bound
}
