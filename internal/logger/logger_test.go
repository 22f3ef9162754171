package logger

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
  t.Run("development", func(t *testing.T) {
    log, err := New("development")
    require.NoError(t, err)
    assert.NotNil(t, log.With("service", "test"))
  })
  t.Run("production", func(t *testing.T) {
    _, err := New("production")
    require.NoError(t, err)
  })
  t.Run("unknown mode", func(t *testing.T) {
    _, err := New("verbose")
    assert.Error(t, err)
  })
}

func TestNopDiscards(t *testing.T) {
  log := Nop().With("repo", "Test")
  log.Debug("debug", "k", 1)
  log.Info("info")
  log.Warn("warn", "error", nil)
  log.Error("error")
}
