package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/breadworks/swpe/internal/application/planning/observability"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...any) {
	r.lines = append(r.lines, format)
}

func TestLog_DefaultsToStdlibBackedLogger(t *testing.T) {
	observability.SetLogger(nil)
	assert.NotPanics(t, func() {
		observability.Log().Printf("solve took %d ms", 42)
	})
}

func TestSetLogger_InstallsCustomLogger(t *testing.T) {
	rec := &recordingLogger{}
	observability.SetLogger(rec)
	t.Cleanup(func() { observability.SetLogger(nil) })

	observability.Log().Printf("dump written to %s", "out.lp")

	assert.Equal(t, []string{"dump written to %s"}, rec.lines)
}
