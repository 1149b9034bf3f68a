package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncomplete(t *testing.T) {
	for src, want := range map[string]bool{
		"":                    false,
		"1 + 2":               false,
		"1 +":                 true,
		"foo(1,":              true,
		"foo(1, (2":           true,
		"foo(1) # (":          false,
		"def foo(x)":          true,
		"def foo(x)\n  x * 2": false,
		"extern sin(x)":       false,
	} {
		assert.Equal(t, want, incomplete(src), "%q", src)
	}
}
