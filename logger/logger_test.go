package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		wantLevel  zapcore.Level
	}{
		{"JSON output mode", true, 0, zapcore.WarnLevel},
		{"Console output mode", false, 0, zapcore.WarnLevel},
		{"Console verbose", false, 1, zapcore.InfoLevel},
		{"Console debug", false, 2, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			err := Initialize(tt.jsonOutput, tt.verbosity)
			require.NoError(t, err)
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.True(t, Logger.Desugar().Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, Logger.Desugar().Core().Enabled(tt.wantLevel-1))
			}

			Cleanup()
		})
	}
}

func TestHelpersWithNilLogger(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()
	Logger = nil

	// Must not panic
	Infow("info")
	Debugw("debug")
	Warnw("warn")
	Errorw("error")
	Cleanup()
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{5, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
	assert.Equal(t, "Trace (-vvv+)", LevelName(7))
	assert.Equal(t, "Unknown", LevelName(-2))
	assert.True(t, ShouldLogTrace(3))
	assert.False(t, ShouldLogTrace(2))
}

func TestChildLogger(t *testing.T) {
	require.NoError(t, Initialize(false, 2))
	defer Cleanup()

	log := ChildLogger(ComponentLogger("gen"), FieldActor, "Counter")
	require.NotNil(t, log)
	log.Debugw("expanded", FieldShape, "native")
}

func TestComponentLogger(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()

	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core).Sugar()

	ComponentLogger("watch").Debugw("Detected change", FieldFile, "a.go")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "watch", entries[0].LoggerName)
	assert.Equal(t, map[string]interface{}{
		FieldComponent: "watch",
		FieldFile:      "a.go",
	}, entries[0].ContextMap())
}
