// This file implements the bundled Go text/template engine, including the
// helper functions available to template authors.

package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/oinktools/pig/resolver"
)

// TemplateSuffix marks a file under an entry's input directory as a
// template. The suffix is stripped from the mirrored output path.
const TemplateSuffix = ".tmpl"

// GoTemplateEngine renders templates with text/template. The zero value is
// ready to use and safe for concurrent use.
type GoTemplateEngine struct{}

var _ Engine = GoTemplateEngine{}

// Templates walks in and returns every *.tmpl file as a path relative to
// in, in lexical order.
func (GoTemplateEngine) Templates(in string) ([]string, error) {
	var templates []string
	err := filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), TemplateSuffix) {
			return nil
		}
		rel, err := filepath.Rel(in, path)
		if err != nil {
			return err
		}
		templates = append(templates, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering templates under %s: %w", in, err)
	}
	return templates, nil
}

// Render parses the template at tmplPath (relative to in) and executes it
// against the resolved tree, converted to plain maps, slices, and scalars.
func (GoTemplateEngine) Render(ctx context.Context, in, tmplPath string, tree *resolver.Node, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Join(in, tmplPath))
	if err != nil {
		return err
	}
	tmpl, err := template.New(tmplPath).Funcs(templateFuncs).Parse(string(data))
	if err != nil {
		return err
	}
	return tmpl.Execute(w, tree.Interface())
}

// templateFuncs provides helper functions available in all templates.
var templateFuncs = template.FuncMap{
	"quote":     strconv.Quote,
	"join":      joinSeq,
	"upper":     strings.ToUpper,
	"lower":     strings.ToLower,
	"title":     titleCase,
	"trim":      strings.TrimSpace,
	"hasPrefix": strings.HasPrefix,
	"hasSuffix": strings.HasSuffix,
	"replace":   strings.ReplaceAll,
	"camel":     toCamel,
	"pascal":    toPascal,
	"snake":     toSnake,
	"kebab":     toKebab,
	"indent":    indent,
	"default":   defaultValue,
	"toJSON":    toJSON,
	"toYAML":    toYAML,
}

// joinSeq concatenates sequence elements with sep. Elements are formatted
// with fmt.Sprint so numeric entries work too.
func joinSeq(list any, sep string) (string, error) {
	switch v := list.(type) {
	case []string:
		return strings.Join(v, sep), nil
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, sep), nil
	default:
		return "", fmt.Errorf("join: cannot join %T", list)
	}
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// toPascal converts a name to PascalCase. It splits on non-alphanumeric
// characters and on lower-to-upper transitions, then capitalizes each part.
func toPascal(s string) string {
	var result strings.Builder
	capitalizeNext := true

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if capitalizeNext {
				result.WriteRune(unicode.ToUpper(r))
				capitalizeNext = false
			} else {
				result.WriteRune(r)
			}
		} else {
			capitalizeNext = true
		}
	}
	return result.String()
}

// toCamel converts a name to camelCase.
func toCamel(s string) string {
	name := toPascal(s)
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// toSnake converts a name to snake_case.
func toSnake(s string) string {
	return toDelimited(s, '_')
}

// toKebab converts a name to kebab-case.
func toKebab(s string) string {
	return toDelimited(s, '-')
}

// toDelimited lowercases s and separates words with delim. Word boundaries
// are non-alphanumeric runs and lower-to-upper transitions.
func toDelimited(s string, delim rune) string {
	var result strings.Builder
	var prev rune

	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune(delim)
			}
			result.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
		default:
			r = delim
			if prev != delim && prev != 0 {
				result.WriteRune(delim)
			}
		}
		prev = r
	}
	return strings.Trim(result.String(), string(delim))
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// defaultValue returns def when v is nil or an empty string, otherwise v.
// Intended for pipelines: {{ .info.version | default "0.0.0" }}.
func defaultValue(def, v any) any {
	if v == nil || v == "" {
		return def
	}
	return v
}

// toJSON marshals a value to indented JSON. Resolved trees keep their
// document key order; plain values use encoding/json's sorted keys.
func toJSON(v any) (string, error) {
	if n, ok := v.(*resolver.Node); ok {
		data, err := resolver.EncodeJSON(n)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// toYAML marshals a value to YAML without the trailing newline.
func toYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
