package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/logging"
)

func remoteAddrHandler(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = r.RemoteAddr
	})
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "no trusted proxies ignores headers",
			remote:  "203.0.113.5:4000",
			headers: map[string]string{"X-Real-IP": "198.51.100.1"},
			want:    "203.0.113.5:4000",
		},
		{
			name:    "trusted proxy X-Real-IP",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:4000",
			headers: map[string]string{"X-Real-IP": "198.51.100.1"},
			want:    "198.51.100.1",
		},
		{
			name:    "trusted single IP with forwarded chain",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:4000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.1"},
			want:    "198.51.100.2",
		},
		{
			name:    "invalid header is ignored",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:4000",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			want:    "10.1.2.3:4000",
		},
		{
			name:    "untrusted source",
			trusted: []string{"10.0.0.0/8", "garbage"},
			remote:  "203.0.113.5:4000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.2"},
			want:    "203.0.113.5:4000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(remoteAddrHandler(&got))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrustedRealIP_RecordsClientIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"port stripped", nil, "203.0.113.5:4000", nil, "203.0.113.5"},
		{"ipv6 port stripped", nil, "[2001:db8::1]:4000", nil, "2001:db8::1"},
		{"forwarded by trusted proxy", []string{"10.0.0.0/8"}, "10.1.2.3:4000",
			map[string]string{"X-Forwarded-For": "198.51.100.2"}, "198.51.100.2"},
		{"invalid real ip falls back to forwarded", []string{"10.0.0.0/8"}, "10.1.2.3:4000",
			map[string]string{"X-Real-IP": "nope", "X-Forwarded-For": "198.51.100.3, 10.0.0.1"}, "198.51.100.3"},
		{"spoofed header from visitor", []string{"10.0.0.0/8"}, "203.0.113.5:4000",
			map[string]string{"X-Real-IP": "198.51.100.1"}, "203.0.113.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = core.GetIPAddressFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("client IP = %q, want %q", got, tt.want)
			}
		})
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"disabled", "", "", http.StatusOK},
		{"missing", "s3cret", "", http.StatusUnauthorized},
		{"wrong scheme", "s3cret", "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", "s3cret", "Bearer nope", http.StatusForbidden},
		{"valid", "s3cret", "Bearer s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			BearerToken(tt.token)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

type fakeStore struct {
	users map[string]*core.User
	err   error
}

func (f fakeStore) SessionUser(_ context.Context, sid string) (*core.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[sid]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return u, nil
}

func TestSession(t *testing.T) {
	store := fakeStore{users: map[string]*core.User{"good": {ID: 1, UserName: "alice"}}}

	run := func(store SessionStore, cookie string) (*core.User, *httptest.ResponseRecorder) {
		var seen *core.User
		h := Session("sid", store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = core.UserFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "sid", Value: cookie})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return seen, rec
	}

	if u, rec := run(store, ""); u != nil || rec.Header().Get("Set-Cookie") != "" {
		t.Errorf("no cookie: user %v, Set-Cookie %q", u, rec.Header().Get("Set-Cookie"))
	}

	u, _ := run(store, "good")
	if u == nil || u.UserName != "alice" {
		t.Fatalf("valid session: user = %v", u)
	}

	u, rec := run(store, "stale")
	if u != nil {
		t.Errorf("stale session: user = %v, want visitor", u)
	}
	if c := rec.Header().Get("Set-Cookie"); !strings.Contains(c, "sid=;") || !strings.Contains(c, "Max-Age=0") {
		t.Errorf("stale session: Set-Cookie = %q, want cleared cookie", c)
	}

	u, rec = run(fakeStore{err: errors.New("db down")}, "good")
	if u != nil || rec.Header().Get("Set-Cookie") != "" {
		t.Errorf("lookup failure: user %v, Set-Cookie %q; want visitor with cookie kept", u, rec.Header().Get("Set-Cookie"))
	}
}

type countingHousekeeper struct{ calls int }

func (c *countingHousekeeper) MaybeHousekeeping() bool {
	c.calls++
	return false
}

func TestHousekeeping(t *testing.T) {
	hk := &countingHousekeeper{}
	served := false
	h := Housekeeping(hk)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hk.calls != 0 {
			t.Error("housekeeping ran before the response")
		}
		served = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !served || hk.calls != 1 {
		t.Errorf("served = %v, calls = %d; want true, 1", served, hk.calls)
	}
}

func TestLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logging.SetupWriter(&buf, "info", "json")

	store := fakeStore{users: map[string]*core.User{"good": {ID: 1, UserName: "alice"}}}
	h := Logger(Session("sid", store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest(http.MethodGet, "/tree/demo", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "good"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN for a 404", entry["level"])
	}
	if entry["user"] != "alice" {
		t.Errorf("user = %v, want alice", entry["user"])
	}
	if entry["path"] != "/tree/demo" || entry["status"] != float64(http.StatusNotFound) {
		t.Errorf("unexpected entry: %v", entry)
	}
}
