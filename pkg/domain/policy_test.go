package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerbosityAxes(t *testing.T) {
	tests := []struct {
		v       Verbosity
		echo    bool
		reports bool
	}{
		{PrintNone, false, false},
		{PrintInOut, true, false},
		{PrintFailures, false, true},
		{PrintAll, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			assert.Equal(t, tt.echo, tt.v.EchoesIO())
			assert.Equal(t, tt.reports, tt.v.ShowsReports())
			assert.NoError(t, tt.v.Validate())
		})
	}
	assert.Error(t, Verbosity(42).Validate())
}

func TestParseVerbosityRoundTrip(t *testing.T) {
	for _, v := range []Verbosity{PrintNone, PrintInOut, PrintFailures, PrintAll} {
		parsed, err := ParseVerbosity(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}

	parsed, err := ParseVerbosity("")
	require.NoError(t, err)
	assert.Equal(t, PrintAll, parsed, "empty keeps the default")

	_, err = ParseVerbosity("loud")
	assert.Error(t, err)
}

func TestCancelModeTriggers(t *testing.T) {
	assert.False(t, CancelNever.Triggers(ReportMismatch))
	assert.False(t, CancelNever.Triggers(ReportFailure))
	assert.True(t, CancelAtMismatch.Triggers(ReportMismatch))
	assert.False(t, CancelAtMismatch.Triggers(ReportFailure))
	assert.True(t, CancelAlways.Triggers(ReportMismatch))
	assert.True(t, CancelAlways.Triggers(ReportFailure))
}

func TestParseCancelModeRoundTrip(t *testing.T) {
	for _, m := range []CancelMode{CancelNever, CancelAtMismatch, CancelAlways} {
		parsed, err := ParseCancelMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseCancelMode("sometimes")
	assert.Error(t, err)
}

func TestHooksChain(t *testing.T) {
	var order []string
	first := LifecycleHooks{
		OnReport: func(*ReportEvent) { order = append(order, "first") },
	}
	second := LifecycleHooks{
		OnReport: func(*ReportEvent) { order = append(order, "second") },
		OnExit:   func(*ExitEvent) { order = append(order, "exit") },
	}

	chained := first.Chain(second)
	chained.OnReport(&ReportEvent{})
	chained.OnExit(&ExitEvent{})

	assert.Equal(t, []string{"first", "second", "exit"}, order)
	assert.Nil(t, chained.OnInput, "unset hooks stay nil after chaining")
}
