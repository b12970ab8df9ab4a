package cli

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
)

var boundEnv = []string{
	"DB_PATH", "NOTES_LIST_ORDER", "NOTES_ADDR", "STATIC_DIR", "CHAT_ADDR",
	"OLLAMA_BASE_URL", "OLLAMA_MODEL", "CHAT_TIMEOUT", "LOG_LEVEL", "NOTESVC_CONFIG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range boundEnv {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRoot()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestConfigShow_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "/srv/notes.db")
	t.Setenv("NOTES_LIST_ORDER", "desc")

	out, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "db_path: /srv/notes.db")
	assert.Contains(t, out, "list_order: desc")
	assert.Contains(t, out, "source: env")
	assert.Contains(t, out, "timeout: 3m0s")
	assert.Contains(t, out, "stderr_level: WARN")
}

func TestConfigShow_FileAndFlags(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "notesvc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ollama_model: mistral\n"), 0644))

	out, _, err := execute(t, "--config", path, "--log-level", "debug", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "ollama_model: mistral")
	assert.Contains(t, out, "source: yaml")
	assert.Contains(t, out, "stderr_level: DEBUG")
}

func TestConfigInit(t *testing.T) {
	clearEnv(t)

	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "db_path: /data/notes.db")
	assert.Contains(t, out, "ollama_base_url: http://ollama:11434")
}

func TestInvalidConfigurationFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTES_LIST_ORDER", "sideways")

	_, _, err := execute(t, "config", "show")
	assert.Error(t, err)

	// version does not depend on configuration
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "notesvc version")
}

func TestNotesMigrate(t *testing.T) {
	clearEnv(t)
	dbPath := filepath.Join(t.TempDir(), "nested", "notes.db")

	out, _, err := execute(t, "notes", "migrate", "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, dbPath+": schema version 2")

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// Second run is a no-op
	out, _, err = execute(t, "notes", "migrate", "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 2")
}

func TestNotesMigrate_UnwritablePath(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, _, err := execute(t, "notes", "migrate", "--db-path", filepath.Join(file, "notes.db"))
	assert.Error(t, err)
}

func TestNotesServe_BadAddress(t *testing.T) {
	clearEnv(t)
	dbPath := filepath.Join(t.TempDir(), "notes.db")

	_, _, err := execute(t, "notes", "serve", "--addr", "no-port", "--db-path", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on no-port")
}

func TestServeListener_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("pong"))
		}),
		ReadHeaderTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serveListener(ctx, srv, ln, app.NopLogger())
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestConfigInit_Output(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "etc", "notesvc.yaml")

	out, _, err := execute(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "chat_timeout: 180s")

	_, _, err = execute(t, "config", "init", "--output", path)
	assert.Error(t, err)

	_, _, err = execute(t, "config", "init", "--output", path, "--force")
	assert.NoError(t, err)

	// The written file loads back
	out, _, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "source: yaml")
}
