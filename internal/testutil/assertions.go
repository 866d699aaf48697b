package testutil

import (
	"testing"

	"github.com/specialistvlad/behaviorkit/internal/walker"
	"github.com/stretchr/testify/require"
)

// AssertOutcome checks that the harness report recorded the given status for
// a behavior.
func AssertOutcome(t *testing.T, result *HarnessResult, name string, status walker.Status) *walker.Outcome {
	t.Helper()
	require.NotNil(t, result.Report, "no report was produced")

	o, ok := result.Report.Outcome(name)
	require.True(t, ok, "behavior '%s' is missing from the report", name)
	require.Equal(t, status, o.Status, "unexpected status for behavior '%s' (reason: %s)", name, o.Reason)
	return o
}
