// ABOUTME: Tests for server assembly and lifecycle
// ABOUTME: Covers wiring from config, startup and graceful shutdown

package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleapp/huddle/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{HTTPAddr: "127.0.0.1:0"},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "server.db")},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
	}
}

func TestNew_WiresComponents(t *testing.T) {
	s, err := New(testConfig(t), nil)
	require.NoError(t, err)
	require.NotNil(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}

func TestNew_RequiresJWTSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = ""

	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestRun_GracefulShutdownOnCancel(t *testing.T) {
	s, err := New(testConfig(t), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Give the listener a moment to come up, then cancel.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}

func TestRun_FailsOnBadAddress(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.HTTPAddr = "256.256.256.256:99999"

	s, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	err = s.Run(context.Background())
	assert.Error(t, err)
}
