package cmd

import (
	"strings"
	"testing"

	"medialink/core/reconcile"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Entry", "Root"}, [][]string{{"0", "/downloads"}, {"1"}}, 0)

	assert.Contains(t, out, "ENTRY")
	assert.Contains(t, out, "/downloads")
	assert.Equal(t, 6, strings.Count(out, "\n")+1)
	assert.Empty(t, renderTable(nil, nil))
}

func TestPrintPassResults_Disabled(t *testing.T) {
	assert.NotPanics(t, func() {
		printPassResults([]*reconcile.PassResult{
			{Entry: 0, Status: reconcile.PassDisabled},
			{Entry: 1, Status: reconcile.PassCompleted, Directories: []reconcile.DirectoryResult{{Root: "/src", Scanned: 3}}},
		})
		printPlanned(nil)
	})
}
