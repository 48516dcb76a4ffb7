package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandPrintsErrorsOnce(t *testing.T) {
	// Execute prints failures itself, so cobra must not echo them too.
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"run": false, "list": false, "export": false, "import": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, seen := range want {
		assert.True(t, seen, "subcommand %s not registered", name)
	}
}
