package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, conns, rate int) (*IPRateLimiter, *time.Time) {
	t.Helper()
	rl := NewIPRateLimiter(conns, rate, time.Second)
	t.Cleanup(rl.Close)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestConnectAllowedCapsPerIP(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, 10)
	if !rl.ConnectAllowed("1.1.1.1") || !rl.ConnectAllowed("1.1.1.1") {
		t.Fatalf("first two connections refused")
	}
	if rl.ConnectAllowed("1.1.1.1") {
		t.Fatalf("third connection allowed")
	}
	if !rl.ConnectAllowed("2.2.2.2") {
		t.Fatalf("other ip refused")
	}
	rl.Disconnect("1.1.1.1")
	if !rl.ConnectAllowed("1.1.1.1") {
		t.Fatalf("slot not freed by Disconnect")
	}
}

func TestDisconnectNeverGoesNegative(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 10)
	rl.ConnectAllowed("1.1.1.1")
	rl.Disconnect("1.1.1.1")
	rl.Disconnect("1.1.1.1")
	rl.Disconnect("9.9.9.9")
	if !rl.ConnectAllowed("1.1.1.1") || rl.ConnectAllowed("1.1.1.1") {
		t.Fatalf("connection count drifted")
	}
}

func TestMessageAllowedRefills(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, 3)
	rl.ConnectAllowed("1.1.1.1")
	for i := 0; i < 3; i++ {
		if !rl.MessageAllowed("1.1.1.1") {
			t.Fatalf("message %d refused", i)
		}
	}
	if rl.MessageAllowed("1.1.1.1") {
		t.Fatalf("bucket did not run dry")
	}

	*clock = clock.Add(999 * time.Millisecond)
	if rl.MessageAllowed("1.1.1.1") {
		t.Fatalf("refilled early")
	}
	*clock = clock.Add(5 * time.Second)
	for i := 0; i < 3; i++ {
		if !rl.MessageAllowed("1.1.1.1") {
			t.Fatalf("message %d refused after refill", i)
		}
	}
	if rl.MessageAllowed("1.1.1.1") {
		t.Fatalf("refill overflowed the bucket")
	}
}

func TestSweepDropsIdleVisitors(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 3)
	rl.ConnectAllowed("1.1.1.1")
	rl.ConnectAllowed("2.2.2.2")
	rl.Disconnect("2.2.2.2")
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["2.2.2.2"]; ok {
		t.Fatalf("idle visitor kept")
	}
	if _, ok := rl.visitors["1.1.1.1"]; !ok {
		t.Fatalf("connected visitor dropped")
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		xff, remote, want string
	}{
		{"", "10.0.0.1:5555", "10.0.0.1"},
		{"203.0.113.7", "10.0.0.1:5555", "203.0.113.7"},
		{" 203.0.113.7 , 10.0.0.2", "10.0.0.1:5555", "203.0.113.7"},
		{"", "pipe", "pipe"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/ws", nil)
		r.RemoteAddr = tt.remote
		if tt.xff != "" {
			r.Header.Set("X-Forwarded-For", tt.xff)
		}
		if got := RealIP(r); got != tt.want {
			t.Errorf("RealIP(xff=%q, remote=%q) = %q, want %q", tt.xff, tt.remote, got, tt.want)
		}
	}
}
