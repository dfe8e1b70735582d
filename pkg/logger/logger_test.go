package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       Config
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "production default", cfg: Config{}, wantLevel: zapcore.InfoLevel},
		{name: "development default", cfg: Config{Environment: EnvironmentDevelopment}, wantLevel: zapcore.DebugLevel},
		{name: "explicit level", cfg: Config{Environment: EnvironmentProduction, Level: "warn"}, wantLevel: zapcore.WarnLevel},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
		{name: "bad environment", cfg: Config{Environment: "moon"}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, level, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Equal(t, tt.wantLevel, level.Level())

			level.SetLevel(zapcore.ErrorLevel)
			assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
		})
	}
}
