package preview

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

func newTestServer(t *testing.T, files map[string]string) *Server {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	logger := charmlog.NewWithOptions(io.Discard, charmlog.Options{})
	s, err := NewServer(root, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func get(t *testing.T, s *Server, path string) (*http.Response, string) {
	t.Helper()
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	resp, body := get(t, s, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if body != `{"status":"ok"}` {
		t.Errorf("body = %q", body)
	}
}

func TestServesPagesAndArtifacts(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"guide/charts.html":                     "<html>charts</html>",
		"guide/charts-md-altair-plot-0.vl.json": `{"mode":"vega-lite"}`,
	})

	resp, body := get(t, s, "/guide/charts.html")
	if resp.StatusCode != http.StatusOK || body != "<html>charts</html>" {
		t.Errorf("page: status = %d, body = %q", resp.StatusCode, body)
	}

	resp, body = get(t, s, "/guide/charts-md-altair-plot-0.vl.json")
	if resp.StatusCode != http.StatusOK || body != `{"mode":"vega-lite"}` {
		t.Errorf("artifact: status = %d, body = %q", resp.StatusCode, body)
	}
}

func TestDirectoryFallsBackToIndex(t *testing.T) {
	s := newTestServer(t, map[string]string{"index.html": "<html>home</html>"})

	resp, body := get(t, s, "/")
	if resp.StatusCode != http.StatusOK || body != "<html>home</html>" {
		t.Errorf("status = %d, body = %q", resp.StatusCode, body)
	}
}

func TestMissingFileIs404(t *testing.T) {
	s := newTestServer(t, nil)
	resp, _ := get(t, s, "/nope.html")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNewServerRejectsMissingRoot(t *testing.T) {
	logger := charmlog.NewWithOptions(io.Discard, charmlog.Options{})
	if _, err := NewServer(filepath.Join(t.TempDir(), "missing"), logger); err == nil {
		t.Error("expected error for missing output directory")
	}
}
