package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogging(t *testing.T) {
	type args struct {
		mode string
	}
	tests := []struct {
		name string
		args args
	}{
		{
			name: "Test_InitLogging_testing_mode_OK",
			args: args{mode: "testing"},
		},
		{
			name: "Test_InitLogging_development_mode_OK",
			args: args{mode: "development"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			prev := Logger
			defer func() { Logger = prev }()

			InitLogging(tt.args.mode, dir)
			Logger.Info("mining logger initialised", zap.String("mode", tt.args.mode))
			_ = Logger.Sync()

			_, err := os.Stat(filepath.Join(dir, "mining.log"))
			require.NoError(t, err)
		})
	}
}

func Test_getEncoder(t *testing.T) {
	t.Parallel()

	cfgUnknown := zap.NewProductionConfig()
	cfgUnknown.Encoding = ""

	cfgJSON := zap.NewProductionConfig()
	cfgJSON.Encoding = "json"

	tests := []struct {
		name      string
		conf      zap.Config
		wantPanic bool
	}{
		{
			name:      "Test_getEncoder_Panic",
			conf:      cfgUnknown,
			wantPanic: true,
		},
		{
			name: "Test_getEncoder_JSON_OK",
			conf: cfgJSON,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.wantPanic {
				assert.Panics(t, func() { getEncoder(tt.conf) })
				return
			}
			assert.NotNil(t, getEncoder(tt.conf))
		})
	}
}
