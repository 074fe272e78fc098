package naming

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"medialink/core/utils"

	"github.com/flosch/pongo2/v6"
	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// unsafeChars are removed by the "normal" filter.
var unsafeChars = regexp.MustCompile("[#%&{}/\\\\<>^*?$!'\":`+|@=]")

// CaseFunc transforms a string into a named case style.
type CaseFunc func(string) string

var caseStyles = map[string]CaseFunc{
	"camel":    strcase.ToLowerCamel,
	"pascal":   strcase.ToCamel,
	"snake":    strcase.ToSnake,
	"kebab":    strcase.ToKebab,
	"constant": strcase.ToScreamingSnake,
	"header":   headerCase,
	"upper":    cases.Upper(language.Und).String,
	"lower":    cases.Lower(language.Und).String,
	"title":    cases.Title(language.Und).String,
	"capital":  capitalCase,
	"sentence": sentenceCase,
}

// CaseStyles lists the style names accepted by the caseFormat filter.
func CaseStyles() []string {
	names := make([]string, 0, len(caseStyles))
	for name := range caseStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize strips characters that are unsafe in file names.
func Normalize(s string) string {
	return unsafeChars.ReplaceAllString(s, "")
}

// CaseFormat applies a named case style.
func CaseFormat(s, style string) (string, error) {
	fn, ok := caseStyles[style]
	if !ok {
		return "", fmt.Errorf("unknown case style %q", style)
	}
	return fn(s), nil
}

// AppendYear appends " (YYYY)" when year is set.
func AppendYear(s string, year any) string {
	if !utils.IsTruthy(year) {
		return s
	}
	return fmt.Sprintf("%s (%s)", s, utils.ToString(year))
}

func headerCase(s string) string {
	parts := strings.Split(strcase.ToKebab(s), "-")
	for i, p := range parts {
		parts[i] = upperFirst(p)
	}
	return strings.Join(parts, "-")
}

func capitalCase(s string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(s))
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

func sentenceCase(s string) string {
	return upperFirst(strings.ToLower(s))
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func registerFilters() error {
	filters := map[string]pongo2.FilterFunction{
		"caseFormat": filterCaseFormat,
		"appendYear": filterAppendYear,
		"normal":     filterNormal,
	}
	for name, fn := range filters {
		if pongo2.FilterExists(name) {
			continue
		}
		if err := pongo2.RegisterFilter(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func filterCaseFormat(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	out, err := CaseFormat(in.String(), param.String())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:caseFormat", OrigError: err}
	}
	return pongo2.AsValue(out), nil
}

func filterAppendYear(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var year any
	if param != nil && !param.IsNil() {
		year = param.Interface()
	}
	return pongo2.AsValue(AppendYear(in.String(), year)), nil
}

func filterNormal(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(Normalize(in.String())), nil
}
