package log_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcepack/sourcepack/pkg/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    log.Level
		wantErr bool
	}{
		{name: "error", input: "error", want: log.ErrorLevel},
		{name: "warn", input: "warn", want: log.WarnLevel},
		{name: "mixed case", input: "Debug", want: log.DebugLevel},
		{name: "trace", input: "trace", want: log.TraceLevel},
		{name: "unknown", input: "verbose", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			level, err := log.ParseLevel(tc.input)

			if tc.wantErr {
				require.Error(t, err)

				var invalidErr *log.InvalidLevelError
				assert.ErrorAs(t, err, &invalidErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, level)
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", log.InfoLevel.String())
	assert.Equal(t, []string{"error", "warn", "info", "debug", "trace"}, log.AllLevels.Names())
}

func TestLoggerLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.New(log.WithOutput(&buf), log.WithLevel(log.WarnLevel))

	logger.Debugf("hidden %s", "message")
	assert.Empty(t, buf.String())

	logger.Warnf("visible %s", "message")
	assert.Contains(t, buf.String(), "visible message")

	assert.Equal(t, log.WarnLevel, logger.Level())
}

func TestLoggerSetLevel(t *testing.T) {
	t.Parallel()

	logger := log.New()

	require.NoError(t, logger.SetLevel("trace"))
	assert.Equal(t, log.TraceLevel, logger.Level())

	require.Error(t, logger.SetLevel("loud"))
}

func TestLoggerClone(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.New(log.WithOutput(&buf), log.WithLevel(log.InfoLevel))

	clone := logger.Clone()
	require.NoError(t, clone.SetLevel("error"))

	// The original keeps its own level.
	assert.Equal(t, log.InfoLevel, logger.Level())
	assert.Equal(t, log.ErrorLevel, clone.Level())
}
