// internal/testutil/sessions.go
package testutil

import (
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/softlexhq/softlex/internal/app/system/auth"
)

var sessionsOnce sync.Once

// InitSessions initializes the cookie session store with a fixed test key.
// Safe to call from every test that signs users in; the store is process
// global and only set up once.
func InitSessions(t *testing.T) {
	t.Helper()
	sessionsOnce.Do(func() {
		if err := auth.InitSessionStore("test-session-key-0123456789abcdef", "", false, zap.NewNop()); err != nil {
			t.Fatalf("init session store: %v", err)
		}
	})
}
