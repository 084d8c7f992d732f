package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/kevinmichaelchen/googl-hunt/internal/persist"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// setup runs the command in an empty directory with the given environment.
func setup(t *testing.T, token, apiURL string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("GITHUB_TOKEN", token)
	t.Setenv("GITHUB_API_URL", apiURL)
}

func TestMissingTokenStopsQuietly(t *testing.T) {
	for _, args := range [][]string{nil, {"search"}, {"fork", "acme", "widgets"}} {
		t.Run(strings.Join(append([]string{"root"}, args...), " "), func(t *testing.T) {
			setup(t, "", "http://127.0.0.1:0")

			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("expected normal return, got %v", err)
			}
			if !strings.Contains(out, missingTokenMsg) {
				t.Errorf("expected missing token message, got %q", out)
			}
		})
	}
}

func TestSearchCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"name":"x","path":"a/x.go","repository":{"full_name":"acme/widgets"}}]}`))
	}))
	defer server.Close()
	setup(t, "tok", server.URL)

	out, err := execute(t, "search")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "acme/widgets  a/x.go") {
		t.Errorf("unexpected output %q", out)
	}
	if _, err := os.Stat(persist.CodeSearchFile); err != nil {
		t.Errorf("expected %s in working directory: %v", persist.CodeSearchFile, err)
	}
}

func TestForkCommandFromURL(t *testing.T) {
	paths := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
	}))
	defer server.Close()
	setup(t, "tok", server.URL)

	if _, err := execute(t, "fork", "https://github.com/acme/widgets/issues/1"); err != nil {
		t.Fatalf("a rejected fork should not be an error: %v", err)
	}
	if got := <-paths; got != "/repos/acme/widgets/forks" {
		t.Errorf("path = %q", got)
	}
	if _, err := os.Stat(persist.ForkResponseFile("widgets")); err != nil {
		t.Errorf("expected fork response file: %v", err)
	}
}

func TestForkCommandMalformedURL(t *testing.T) {
	setup(t, "tok", "http://127.0.0.1:0")

	if _, err := execute(t, "fork", "acme/widgets"); err == nil {
		t.Fatal("expected an error for a malformed URL")
	}
}

func TestResolveCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://example.com/final")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()
	setup(t, "", "http://127.0.0.1:0")

	out, err := execute(t, "resolve", server.URL+"/abc")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !strings.Contains(out, "https://example.com/final") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestResolveCommandFork(t *testing.T) {
	forks := make(chan string, 1)
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/abc", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", server.URL+"/acme/widgets")
		w.WriteHeader(http.StatusMovedPermanently)
	})
	mux.HandleFunc("/repos/acme/widgets/forks", func(w http.ResponseWriter, r *http.Request) {
		forks <- r.Method
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"html_url":"https://github.com/me/widgets"}`))
	})

	t.Run("with token", func(t *testing.T) {
		setup(t, "tok", server.URL)

		out, err := execute(t, "resolve", "--fork", server.URL+"/abc")
		if err != nil {
			t.Fatalf("resolve --fork failed: %v", err)
		}
		select {
		case method := <-forks:
			if method != http.MethodPost {
				t.Errorf("fork method = %s, want POST", method)
			}
		default:
			t.Fatal("expected a fork request for acme/widgets")
		}
		if !strings.Contains(out, server.URL+"/acme/widgets") {
			t.Errorf("expected resolved destination in output, got %q", out)
		}
		if _, err := os.Stat(persist.ForkResponseFile("widgets")); err != nil {
			t.Errorf("expected fork response file: %v", err)
		}
	})

	t.Run("without token", func(t *testing.T) {
		setup(t, "", server.URL)

		out, err := execute(t, "resolve", "--fork", server.URL+"/abc")
		if err != nil {
			t.Fatalf("expected normal return, got %v", err)
		}
		if !strings.Contains(out, missingTokenMsg) {
			t.Errorf("expected missing token message, got %q", out)
		}
		select {
		case <-forks:
			t.Error("no fork should be attempted without a token")
		default:
		}
	})
}
