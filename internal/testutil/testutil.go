// Package testutil holds shared helpers for system tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vk/stackformgo/internal/app"
	"github.com/vk/stackformgo/internal/hcl"
	"github.com/vk/stackformgo/internal/provider"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteStackFile writes inline HCL into a temp dir and returns its path.
func WriteStackFile(t *testing.T, hclSrc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	if err := os.WriteFile(path, []byte(hclSrc), 0o600); err != nil {
		t.Fatalf("failed to write hcl file: %v", err)
	}
	return path
}

// SetupAppTest creates a new app instance for system testing, wired to
// the given provider client and an HCL loader.
func SetupAppTest(t *testing.T, appConfig *app.Config, client provider.Client) (*app.App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	appConfig.LogLevel = "debug"
	appConfig.LogFormat = "json"
	if appConfig.WorkerCount < 1 {
		appConfig.WorkerCount = 1
	}
	testApp := app.NewApp(logBuffer, appConfig, hcl.NewLoader(), client)

	t.Cleanup(func() {
		if os.Getenv("STACKFORM_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
