package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrace(t *testing.T) {
	ops, err := parseTrace(strings.NewReader(`
# two small blocks
alloc a 100
alloc b 0x100   # hex sizes are accepted

free a
free b
`))
	require.NoError(t, err)
	assert.Equal(t, []op{
		{kind: opAlloc, id: "a", size: 100, line: 3},
		{kind: opAlloc, id: "b", size: 256, line: 4},
		{kind: opFree, id: "a", line: 6},
		{kind: opFree, id: "b", line: 7},
	}, ops)
}

func TestParseTraceErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unknown op", input: "realloc a 10", want: "line 1: unknown operation"},
		{name: "alloc arity", input: "alloc a", want: "line 1: expected"},
		{name: "free arity", input: "\nfree", want: "line 2: expected"},
		{name: "bad size", input: "alloc a ten", want: "line 1: invalid size"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseTrace(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
