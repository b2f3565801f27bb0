package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/lockstep/pkg/domain"
)

func TestReporter_EchoRespectsVerbosity(t *testing.T) {
	tests := []struct {
		name      string
		verbosity domain.Verbosity
		wantEcho  bool
	}{
		{"none", domain.PrintNone, false},
		{"in-out", domain.PrintInOut, true},
		{"failures", domain.PrintFailures, false},
		{"all", domain.PrintAll, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			r := New(&buf, tt.verbosity)
			r.Echo("hello")
			if tt.wantEcho {
				assert.Equal(t, "hello\n", buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestReporter_ReportRespectsVerbosity(t *testing.T) {
	tests := []struct {
		name       string
		verbosity  domain.Verbosity
		wantReport bool
	}{
		{"none", domain.PrintNone, false},
		{"in-out", domain.PrintInOut, false},
		{"failures", domain.PrintFailures, true},
		{"all", domain.PrintAll, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			r := New(&buf, tt.verbosity)
			r.Report(domain.ReportMismatch, "out of order")
			if tt.wantReport {
				assert.Equal(t, ">>> MISMATCH: out of order\n", buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestReporter_FailurePrefix(t *testing.T) {
	var buf strings.Builder
	r := New(&buf, domain.PrintAll)
	r.Report(domain.ReportFailure, "wrong value")
	assert.Equal(t, ">>> FAILURE: wrong value\n", buf.String())
}

func TestReporter_SetVerbosity(t *testing.T) {
	var buf strings.Builder
	r := New(&buf, domain.PrintNone)
	r.Echo("silent")
	r.SetVerbosity(domain.PrintAll)
	r.Echo("loud")
	assert.Equal(t, "loud\n", buf.String())
}
