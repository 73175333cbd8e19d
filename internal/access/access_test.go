package access

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestNew_InvalidEntries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		entries []string
	}{
		{"bad literal", []string{"not-an-ip"}},
		{"bad cidr", []string{"192.168.1.0/99"}},
		{"mixed with bad", []string{"127.0.0.1", "10.0.0.0/8", "bogus"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New("", tc.entries); err == nil {
				t.Errorf("New(%v): expected error, got nil", tc.entries)
			}
		})
	}
}

func TestMode(t *testing.T) {
	t.Parallel()

	open, err := New("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if open.Mode() != Unrestricted {
		t.Errorf("Mode(): got %v, want Unrestricted", open.Mode())
	}

	keyed, err := New("secret", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keyed.Mode() != Restricted {
		t.Errorf("Mode(): got %v, want Restricted with key configured", keyed.Mode())
	}

	listed, err := New("", []string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listed.Mode() != Restricted {
		t.Errorf("Mode(): got %v, want Restricted with whitelist configured", listed.Mode())
	}
}

func TestWhitelistSize(t *testing.T) {
	t.Parallel()

	open, err := New("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := open.WhitelistSize(); got != 0 {
		t.Errorf("WhitelistSize(): got %d, want 0", got)
	}

	listed, err := New("", []string{"10.0.0.0/8", "192.168.1.5", "2001:db8::/32"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := listed.WhitelistSize(); got != 3 {
		t.Errorf("WhitelistSize(): got %d, want 3", got)
	}
}

func TestCheckKey(t *testing.T) {
	t.Parallel()

	g, err := New("secret-key", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.CheckKey("secret-key"); err != nil {
		t.Errorf("CheckKey(matching): got %v, want nil", err)
	}
	if err := g.CheckKey("wrong"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("CheckKey(wrong): got %v, want ErrInvalidKey", err)
	}
	if err := g.CheckKey(""); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("CheckKey(missing): got %v, want ErrInvalidKey", err)
	}

	open, err := New("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := open.CheckKey(""); err != nil {
		t.Errorf("CheckKey with no key configured: got %v, want nil", err)
	}
}

func TestCheckIP(t *testing.T) {
	t.Parallel()

	g, err := New("", []string{"192.168.1.0/24", "203.0.113.7", "2001:db8::/32"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		ip      string
		allowed bool
	}{
		{"192.168.1.50", true},
		{"192.168.1.1", true},
		{"192.168.2.50", false},
		{"203.0.113.7", true},
		{"203.0.113.8", false},
		{"2001:db8::1", true},
		{"2001:db9::1", false},
		{"garbage", false},
		{"", false},
	}

	for _, tc := range cases {
		err := g.CheckIP(tc.ip)
		if tc.allowed && err != nil {
			t.Errorf("CheckIP(%q): got %v, want nil", tc.ip, err)
		}
		if !tc.allowed && err == nil {
			t.Errorf("CheckIP(%q): got nil, want denial", tc.ip)
		}
	}
}

func TestCheckIP_DenialType(t *testing.T) {
	t.Parallel()

	g, err := New("", []string{"10.0.0.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = g.CheckIP("10.0.0.2")
	var denied *IPDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("error type: got %T, want *IPDeniedError", err)
	}
	if denied.IP != "10.0.0.2" {
		t.Errorf("IP: got %q, want %q", denied.IP, "10.0.0.2")
	}
}

func TestCheckIP_LoopbackAlias(t *testing.T) {
	t.Parallel()

	g, err := New("", []string{"127.0.0.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.CheckIP("::1"); err != nil {
		t.Errorf("CheckIP(::1) with 127.0.0.1 whitelisted: got %v, want nil", err)
	}

	g6, err := New("", []string{"::1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g6.CheckIP("127.0.0.1"); err != nil {
		t.Errorf("CheckIP(127.0.0.1) with ::1 whitelisted: got %v, want nil", err)
	}
}

func TestCheckIP_EmptyWhitelist(t *testing.T) {
	t.Parallel()

	g, err := New("key", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.CheckIP("198.51.100.23"); err != nil {
		t.Errorf("CheckIP with empty whitelist: got %v, want nil", err)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{"direct connection", "198.51.100.9:54321", "", "", "198.51.100.9"},
		{"x-forwarded-for single", "10.0.0.1:1234", "203.0.113.50", "", "203.0.113.50"},
		{"x-forwarded-for chain takes first", "10.0.0.1:1234", "203.0.113.50, 10.0.0.1, 10.0.0.2", "", "203.0.113.50"},
		{"x-real-ip fallback", "10.0.0.1:1234", "", "203.0.113.60", "203.0.113.60"},
		{"forwarded-for wins over real-ip", "10.0.0.1:1234", "203.0.113.50", "203.0.113.60", "203.0.113.50"},
		{"remote addr without port", "203.0.113.70", "", "", "203.0.113.70"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}

			if got := ClientIP(r); got != tc.want {
				t.Errorf("ClientIP(): got %q, want %q", got, tc.want)
			}
		})
	}
}
