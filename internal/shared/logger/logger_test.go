package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slip.log")

	log, err := New("slip-service", "prod", path)
	require.NoError(t, err)
	log.Info("placed")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"service":"slip-service"`)
	assert.Contains(t, string(b), `"msg":"placed"`)
}

func TestNewLocal(t *testing.T) {
	log, err := New("odds-service", "local", "")
	require.NoError(t, err)
	assert.NotNil(t, log)
}
