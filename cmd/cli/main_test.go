package main

import (
	"io"
	"testing"

	"survivalvolume/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportNames(t *testing.T) {
	names := reportNames([]string{
		"a/study.xlsx",
		"b/study.xlsx",
		"c/Study.xlsx",
		"study-2.xlsx",
		"other.xlsx",
	}, ".md")

	assert.Equal(t, []string{"study.md", "study-2.md", "Study-3.md", "study-2-2.md", "other.md"}, names)
}

func TestReportNamesKeepsDistinctWorkbooks(t *testing.T) {
	names := reportNames([]string{"x/alpha.xlsx", "x/beta.xlsx"}, ".json")
	assert.Equal(t, []string{"alpha.json", "beta.json"}, names)
}

func TestExitErrorCodesUsageErrors(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"version", "--no-such-flag"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, "UNKNOWN", errors.GetCode(err))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(exitError(err)))

	cfgErr := errors.ConfigInvalid("ci must be in (0, 1)")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(exitError(cfgErr)))
}
