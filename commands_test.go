package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFlags_OnlyChangedFlagsAreSet(t *testing.T) {
	cmd := newExtractCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--url", "https://youtu.be/dQw4w9WgXcQ", "--transcript=false"}))

	var f extractFlags
	f.transcript, _ = cmd.Flags().GetBool("transcript")
	f.title, _ = cmd.Flags().GetBool("title")

	opts := f.options(cmd)
	require.NotNil(t, opts.Transcript)
	assert.False(t, *opts.Transcript)
	assert.Nil(t, opts.Title)
	assert.True(t, opts.IncludeTitle())
	assert.False(t, opts.IncludeTranscript())
}

func TestExtractCommand_RejectsInvalidType(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"extract", "--type", "playlist", "--url", "https://youtu.be/dQw4w9WgXcQ"})
	root.SilenceErrors = true

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid type")
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCmd()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "extract")
}
