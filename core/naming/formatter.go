package naming

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"medialink/core/reconcile"

	"github.com/flosch/pongo2/v6"
)

var registerOnce = sync.OnceValue(registerFilters)

// appendYearRe matches the appendYear filter with or without an argument.
var appendYearRe = regexp.MustCompile(`\|\s*appendYear(\s*:)?`)

// Formatter renders destination path templates. Templates use Django style
// placeholders ("{{ title }}") and the filters caseFormat, appendYear and
// normal. Output is never HTML escaped.
type Formatter struct {
	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

// NewFormatter creates a formatter with an empty template cache.
func NewFormatter() *Formatter {
	return &Formatter{templates: make(map[string]*pongo2.Template)}
}

// Render implements reconcile.PathFormatter.
func (f *Formatter) Render(template string, meta reconcile.Metadata) (string, error) {
	tpl, err := f.compile(template)
	if err != nil {
		return "", err
	}
	out, err := tpl.Execute(pongo2.Context(meta))
	if err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return out, nil
}

// Validate compiles template without rendering it.
func (f *Formatter) Validate(template string) error {
	_, err := f.compile(template)
	return err
}

func (f *Formatter) compile(template string) (*pongo2.Template, error) {
	if err := registerOnce(); err != nil {
		return nil, fmt.Errorf("register filters: %w", err)
	}

	f.mu.RLock()
	tpl, ok := f.templates[template]
	f.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	tpl, err := pongo2.FromString("{% autoescape off %}" + bindAppendYear(template) + "{% endautoescape %}")
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", template, err)
	}

	f.mu.Lock()
	f.templates[template] = tpl
	f.mu.Unlock()
	return tpl, nil
}

// bindAppendYear gives a bare appendYear filter the year placeholder as its
// argument, since filters cannot read the template context.
func bindAppendYear(template string) string {
	return appendYearRe.ReplaceAllStringFunc(template, func(m string) string {
		if strings.HasSuffix(m, ":") {
			return m
		}
		return m + ":year"
	})
}
