package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunCmd_RegistersFlagsWithDocumentedDefaults(t *testing.T) {
	size := runCmd.Flags().Lookup("size")
	maxSteps := runCmd.Flags().Lookup("max-steps")

	assert.NotNil(t, runCmd.Flags().Lookup("src"))
	assert.NotNil(t, runCmd.Flags().Lookup("dst"))
	require := assert.New(t)
	require.NotNil(size)
	require.Equal("5", size.DefValue)
	require.NotNil(maxSteps)
	require.Equal("10000", maxSteps.DefValue)
}
