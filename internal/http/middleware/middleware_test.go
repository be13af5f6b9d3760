package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var got []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = append(got, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), nil, mark("b")).Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		got = append(got, "h")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(got, ",") != "a,b,h" {
		t.Fatalf("order=%v, want [a b h]", got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Fatalf("generated request id is empty")
	}
	if rr.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("response header=%q, want %q", rr.Header().Get(RequestIDHeader), seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Fatalf("request id=%q, want abc-123", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "bad id" {
		t.Fatalf("invalid incoming request id was trusted")
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	h := Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("log=%q, want panic line", buf.String())
	}
}

func TestIdentity(t *testing.T) {
	var seen int64
	h := Identity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFrom(r.Context())
	}))

	cases := []struct {
		header string
		status int
		want   int64
	}{
		{"", http.StatusOK, 0},
		{"42", http.StatusOK, 42},
		{"abc", http.StatusUnauthorized, 0},
		{"-1", http.StatusUnauthorized, 0},
	}
	for _, tc := range cases {
		seen = 0
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set(UserIDHeader, tc.header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != tc.status {
			t.Fatalf("header %q: status=%d, want %d", tc.header, rr.Code, tc.status)
		}
		if seen != tc.want {
			t.Fatalf("header %q: user id=%d, want %d", tc.header, seen, tc.want)
		}
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Chain(RequestID(), AccessLog(log), Identity()).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req.Header.Set(UserIDHeader, "7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{`"status":418`, `"path":"/brew"`, `"request_id":"`, `"user_id":"7"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log=%q, want %s", line, want)
		}
	}
}
