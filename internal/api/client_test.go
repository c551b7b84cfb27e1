// internal/api/client_test.go
package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const profilePage = `<html><body><table>
<tr><td><b>Username:</b></td><td><i>Sturm4Ever</i></td></tr>
<tr><td><b>Rank:</b></td><td><i>12</i></td></tr>
</table></body></html>`

func TestNew(t *testing.T) {
	c := New("http://localhost:5000", time.Second)

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected baseURL=http://localhost:5000, got %s", c.baseURL)
	}
	if c.httpClient == nil || c.httpClient.Timeout != time.Second {
		t.Errorf("expected a client with a 1s timeout, got %+v", c.httpClient)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/", 0)
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", c.httpClient.Timeout)
	}
}

func TestUsername_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile.php" {
			t.Errorf("expected path /profile.php, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("users_id"); got != "5000" {
			t.Errorf("expected users_id=5000, got %s", got)
		}
		_, _ = w.Write([]byte(profilePage))
	}))
	defer server.Close()

	c := New(server.URL, 0)
	name, err := c.Username(context.Background(), 5000)
	if err != nil {
		t.Fatalf("Username failed: %v", err)
	}
	if name != "Sturm4Ever" {
		t.Errorf("expected Sturm4Ever, got %q", name)
	}
}

func TestUsername_NotFound(t *testing.T) {
	pages := []string{
		`<html>no such user</html>`,
		`<b>Username:</b> plain text`,
		`<b>Username:</b><i>unterminated`,
	}

	for _, page := range pages {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(page))
		}))

		c := New(server.URL, 0)
		_, err := c.Username(context.Background(), 1)
		if !errors.Is(err, ErrUsernameNotFound) {
			t.Errorf("page %q: expected ErrUsernameNotFound, got %v", page, err)
		}
		server.Close()
	}
}

func TestUsername_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, 0)
	_, err := c.Username(context.Background(), 1)
	if err == nil {
		t.Error("expected error for 500 response")
	}
	if errors.Is(err, ErrUsernameNotFound) {
		t.Error("status errors must not look like a missing username")
	}
}

func TestUsername_ServerDown(t *testing.T) {
	c := New("http://localhost:59999", time.Second) // unlikely to be listening
	_, err := c.Username(context.Background(), 1)
	if err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestUsername_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(profilePage))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(server.URL, 0)
	_, err := c.Username(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestScrapeUsername(t *testing.T) {
	tests := []struct {
		page string
		want string
		ok   bool
	}{
		{`Username: <i>a</i>`, "a", true},
		{`<i>decoy</i> Username: <b>x</b><i>real</i>`, "real", true},
		{`Username: <i></i>`, "", true},
		{`Username:`, "", false},
		{``, "", false},
	}

	for _, tt := range tests {
		got, ok := scrapeUsername(tt.page)
		if got != tt.want || ok != tt.ok {
			t.Errorf("scrapeUsername(%q) = %q, %v; want %q, %v", tt.page, got, ok, tt.want, tt.ok)
		}
	}
}
