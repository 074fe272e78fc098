package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseFormat(t *testing.T) {
	tests := []struct {
		style string
		want  string
	}{
		{"camel", "helloWorld"},
		{"pascal", "HelloWorld"},
		{"snake", "hello_world"},
		{"kebab", "hello-world"},
		{"constant", "HELLO_WORLD"},
		{"header", "Hello-World"},
		{"upper", "HELLO WORLD"},
		{"lower", "hello world"},
		{"title", "Hello World"},
		{"capital", "Hello World"},
		{"sentence", "Hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			got, err := CaseFormat("hello world", tt.style)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CaseFormat("x", "wobbly")
	assert.Error(t, err)
	assert.Len(t, CaseStyles(), len(tests))
}

func TestNormalize(t *testing.T) {
	in := "a#b%c&d{e}f/g\\h<i>j^k*l?m$n!o'p\"q:r`s+t|u@v=w"
	assert.Equal(t, "abcdefghijklmnopqrstuvw", Normalize(in))
	assert.Equal(t, "Star Wars Episode IV", Normalize("Star Wars: Episode IV"))
}

func TestAppendYear(t *testing.T) {
	assert.Equal(t, "Heat (1995)", AppendYear("Heat", 1995))
	assert.Equal(t, "Heat (1995)", AppendYear("Heat", "1995"))
	assert.Equal(t, "Heat", AppendYear("Heat", nil))
	assert.Equal(t, "Heat", AppendYear("Heat", 0))
	assert.Equal(t, "Heat", AppendYear("Heat", ""))
	assert.Equal(t, "Heat ( )", AppendYear("Heat", " "))
}

func TestUpperFirst(t *testing.T) {
	assert.Equal(t, "", upperFirst(""))
	assert.Equal(t, "Élan", upperFirst("élan"))
	assert.True(t, strings.HasPrefix(sentenceCase("THE END"), "The"))
}
