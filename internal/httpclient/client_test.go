package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

type testError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, nil, WithHTTPClient(srv.Client())), srv
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://www.example.com", "example.com"},
		{"http://www.example.com", "example.com"},
		{"www.example.com", "example.com"},
		{"example.com", "example.com"},
		{"HTTPS://WWW.example.com", "example.com"},
		{"https://api.twitch.tv", "api.twitch.tv"},
	}

	for _, test := range tests {
		if got := NormalizeHost(test.input); got != test.expected {
			t.Errorf("NormalizeHost(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestNewNormalizesHost(t *testing.T) {
	c := New("https://www.example.com", map[string]string{"A": "1"})
	if c.Host() != "example.com" {
		t.Errorf("Expected host example.com, got %s", c.Host())
	}
}

func TestSetHeadersMerges(t *testing.T) {
	c := New("example.com", nil)
	c.SetHeaders(map[string]string{"A": "1"})
	c.SetHeaders(map[string]string{"B": "2"})

	expected := map[string]string{"A": "1", "B": "2"}
	if got := c.Headers(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Headers() = %v, expected %v", got, expected)
	}
}

func TestHeadersReturnsCopy(t *testing.T) {
	c := New("example.com", map[string]string{"A": "1"})
	h := c.Headers()
	h["A"] = "changed"
	if c.Headers()["A"] != "1" {
		t.Error("Expected Headers() to return a copy")
	}
}

func TestGetSuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/key" {
			t.Errorf("Expected path /key, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"key":"value"}`))
	})

	got, err := Get[map[string]string, APIError](context.Background(), c, "/key")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got["key"] != "value" {
		t.Errorf("Expected key=value, got %v", got)
	}
}

func TestGetSendsHeaders(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("Expected Authorization header, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Client-Id") != "client" {
			t.Errorf("Expected Client-Id header, got %q", r.Header.Get("Client-Id"))
		}
		w.Write([]byte(`{}`))
	})
	c.SetHeaders(map[string]string{"Authorization": "Bearer token"})
	c.SetHeaders(map[string]string{"Client-Id": "client"})

	if _, err := Get[map[string]any, APIError](context.Background(), c, "/"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestGetErrorBodyPassthrough(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusBadGateway} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"code":42,"message":"nope"}`))
		})

		_, err := Get[map[string]string, testError](context.Background(), c, "/missing")

		var statusErr *StatusError[testError]
		if !errors.As(err, &statusErr) {
			t.Fatalf("status %d: expected *StatusError, got %T (%v)", status, err, err)
		}
		if statusErr.StatusCode != status {
			t.Errorf("Expected status %d, got %d", status, statusErr.StatusCode)
		}
		expected := testError{Code: 42, Message: "nope"}
		if statusErr.Body != expected {
			t.Errorf("Expected body %+v, got %+v", expected, statusErr.Body)
		}
	}
}

func TestGetEmptyBodyIsParseError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := Get[map[string]string, APIError](context.Background(), c, "/")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Expected ErrParse, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.Code != -1 || apiErr.Name != "SyntaxError" || apiErr.Message != "Unable to parse response as JSON" {
		t.Errorf("Unexpected parse error shape: %+v", apiErr)
	}
}

func TestGetNonJSONErrorBodyIsParseError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	})

	_, err := Get[map[string]string, APIError](context.Background(), c, "/")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Expected ErrParse, got %v", err)
	}
}

func TestGetUnreachableHost(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	c := New(srv.URL, nil, WithHTTPClient(srv.Client()))
	srv.Close()

	_, err := Get[map[string]string, APIError](context.Background(), c, "/")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Name == "" || apiErr.Message == "" {
		t.Errorf("Expected name and message, got %+v", apiErr)
	}
	if errors.Is(err, ErrParse) {
		t.Error("Transport failure must not match ErrParse")
	}
}

func TestGetCanceledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get[map[string]string, APIError](ctx, c, "/")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Name != "ECANCELED" {
		t.Errorf("Expected ECANCELED, got %s", apiErr.Name)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("Expected the transport error to unwrap to context.Canceled")
	}
}

func TestIsNumberBetween(t *testing.T) {
	tests := []struct {
		n        int
		expected bool
	}{
		{199, false},
		{200, true},
		{204, true},
		{299, true},
		{300, false},
	}

	for _, test := range tests {
		if got := isNumberBetween(test.n, 200, 299); got != test.expected {
			t.Errorf("isNumberBetween(%d, 200, 299) = %v, expected %v", test.n, got, test.expected)
		}
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError[APIError]{
		StatusCode: 401,
		Body:       APIError{Code: 401, Name: "Unauthorized", Message: "missing token"},
	}
	if err.Error() != "Unauthorized (401): missing token" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}
