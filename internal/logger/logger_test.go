package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "")
	require.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := New("info", path)
	require.NoError(t, err)

	log.Infow("project created", "project_id", 1)
	log.Debugw("filtered out")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"project created"`)
	require.Contains(t, string(data), `"project_id":1`)
	require.NotContains(t, string(data), "filtered out")
}
