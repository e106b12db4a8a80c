package serverinfofile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/fs"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/fs/fsmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newProvider(t *testing.T, values map[string]interface{}) config.Provider {
	p, err := config.NewStaticProvider(values)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]interface{}
		wantErr bool
	}{
		{
			name:   "all required params are present",
			values: map[string]interface{}{_configKeyInfoFile: "/tmp/nbcopilot.json"},
		},
		{
			name:    "missing key",
			values:  map[string]interface{}{"other": "value"},
			wantErr: true,
		},
		{
			name:    "wrong type",
			values:  map[string]interface{}{_configKeyInfoFile: []string{"a", "b"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := New(Params{
				Config:    newProvider(t, tt.values),
				Lifecycle: fxtest.NewLifecycle(t),
				Logger:    zap.NewNop().Sugar(),
				FS:        fs.New(),
			})

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "/tmp/nbcopilot.json", info.Path())
		})
	}
}

func TestUpdateField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.json")
	m := &module{
		infofile:     path,
		fs:           fs.New(),
		logger:       zap.NewNop().Sugar(),
		fileContents: make(map[string]string),
	}

	require.NoError(t, m.UpdateField("lsp-address", "127.0.0.1:27883"))
	require.NoError(t, m.UpdateField("backend-pid", "4242"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lsp-address":"127.0.0.1:27883","backend-pid":"4242"}`, string(data))
}

func TestUpdateFieldWriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsMock := fsmock.NewMockFS(ctrl)
	fsMock.EXPECT().WriteFile("/tmp/info.json", gomock.Any()).Return(errors.New("read-only file system"))

	m := &module{
		infofile:     "/tmp/info.json",
		fs:           fsMock,
		logger:       zap.NewNop().Sugar(),
		fileContents: make(map[string]string),
	}
	assert.ErrorContains(t, m.UpdateField("k", "v"), "read-only file system")
}

func TestOnStop(t *testing.T) {
	t.Run("file removed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "info.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

		m := module{
			infofile: path,
			fs:       fs.New(),
			logger:   zap.NewNop().Sugar(),
		}
		require.NoError(t, m.OnStop(context.Background()))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("file never written", func(t *testing.T) {
		m := module{
			infofile: filepath.Join(t.TempDir(), "missing.json"),
			fs:       fs.New(),
			logger:   zap.NewNop().Sugar(),
		}
		assert.NoError(t, m.OnStop(context.Background()))
	})
}
