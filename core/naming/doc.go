// Package naming renders link destination paths from media metadata.
//
// Templates are pongo2 (Django syntax) strings such as
//
//	{{ title|appendYear:year }}/{{ title|normal }} - S{{ season }}E{{ episode }}.{{ extension }}
//
// Three filters are registered by name:
//
//   - caseFormat:"style" converts to one of the styles returned by CaseStyles.
//   - appendYear:year appends " (YYYY)" when year is set.
//   - normal strips characters that are unsafe in file names.
package naming
