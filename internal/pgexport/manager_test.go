package pgexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Disabled(t *testing.T) {
	m, err := NewManager(Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, m.IsEnabled())
	assert.Nil(t, m.Repos())
	assert.Nil(t, m.DB())
	assert.NoError(t, m.Close())
}

func TestNewManager_EnabledMissingDSN(t *testing.T) {
	_, err := NewManager(Config{Enabled: true})
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.False(t, cfg.Enabled)
}
