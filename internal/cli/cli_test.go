package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/config"
	"bookshelf/internal/domain"
	"bookshelf/internal/handler"
)

// isolate keeps host config files and environment out of a test
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvAddr, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "bookshelf", cmd.Use)
	assert.Contains(t, cmd.Long, "JSON HTTP API")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"serve", "export", "import", "config"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("database-url"))
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		dsn     string
		wantErr bool
	}{
		{dsn: "memory://"},
		{dsn: "sqlite://:memory:"},
		{dsn: "sqlite:///" + filepath.Join(dir, "test.db")},
		{dsn: "postgres://localhost/db", wantErr: true},
		{dsn: "sqlite:///" + filepath.Join(dir, "missing", "test.db"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			store, err := OpenStore(tt.dsn)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			defer store.Close()
			assert.NoError(t, store.Ping(context.Background()))
		})
	}
}

func TestCorsConfig(t *testing.T) {
	// Unset fields fall back to the handler defaults
	got := corsConfig(config.CORSConfig{})
	assert.Equal(t, handler.DefaultCORSConfig(), got)

	got = corsConfig(config.CORSConfig{
		AllowedOrigins:   []string{"https://app.example.com"},
		AllowCredentials: true,
		MaxAge:           config.Duration(time.Minute),
	})
	assert.Equal(t, []string{"https://app.example.com"}, got.AllowedOrigins)
	assert.Equal(t, handler.DefaultCORSConfig().AllowedMethods, got.AllowedMethods)
	assert.True(t, got.AllowCredentials)
	assert.Equal(t, time.Minute, got.MaxAge)

	// Config defaults and handler defaults agree
	assert.Equal(t, handler.DefaultCORSConfig(), corsConfig(config.DefaultConfig().CORS))
}

func TestImportThenExport(t *testing.T) {
	isolate(t)
	db := "sqlite:///" + filepath.Join(t.TempDir(), "shelf.db")

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	seedYAML := `books:
  - id: 1
    title: Go
    author: X
    publisher: "Y"
students:
  - id: 3
    name: Ada
    grade: 2
    address: Here
posts:
  - title: Hello World
    content: hi
`
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0644))

	out, err := run(t, "--database-url", db, "import", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 records")

	// A second import conflicts and changes nothing
	_, err = run(t, "--database-url", db, "import", seedPath)
	assert.ErrorIs(t, err, domain.ErrConflict)

	out, err = run(t, "--database-url", db, "export", "--format", "json")
	require.NoError(t, err)

	var cat struct {
		Books []map[string]any `json:"books"`
		Posts []map[string]any `json:"posts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cat))
	require.Len(t, cat.Books, 1)
	assert.Equal(t, "Go", cat.Books[0]["title"])
	require.Len(t, cat.Posts, 1)
	assert.Equal(t, "hello-world", cat.Posts[0]["slug"])

	// Replace empties the store first
	emptyPath := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, []byte(`{}`), 0644))
	_, err = run(t, "--database-url", db, "import", "--replace", emptyPath)
	require.NoError(t, err)

	outFile := filepath.Join(t.TempDir(), "out.yaml")
	_, err = run(t, "--database-url", db, "export", "-o", outFile)
	require.NoError(t, err)
	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "books: []")
}

func TestImportRejectsUnknownFormat(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "seed.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,title\n"), 0644))

	_, err := run(t, "--database-url", "memory://", "import", path)
	assert.ErrorContains(t, err, `unsupported format ".csv"`)
}

func TestConfigCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Config: (defaults)")
	assert.Contains(t, out, "Database: sqlite:///./bookshelf.db")

	out, err = run(t, "--database-url", "memory://", "config", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "url: memory://")

	_, err = run(t, "--database-url", "nope", "config")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestConfigPaths(t *testing.T) {
	isolate(t)
	xdg := os.Getenv("XDG_CONFIG_HOME")
	path := filepath.Join(xdg, "bookshelf", "config.yaml")
	require.NoError(t, config.DefaultConfig().Save(path))

	out, err := run(t, "config", "--paths")
	require.NoError(t, err)
	assert.Contains(t, out, "* xdg      "+path)
	assert.Contains(t, out, "  system   /etc/bookshelf/config.yaml")
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bookshelf", "config.yaml")

	out, err := run(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = run(t, "config", "init", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "config", "init", "--path", path, "--force")
	require.NoError(t, err)

	out, err = run(t, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Config: "+path)
}

func TestServeRequiresSeedForWatch(t *testing.T) {
	isolate(t)
	_, err := run(t, "serve", "--watch")
	assert.ErrorContains(t, err, "--watch requires --seed")
}

func TestRunServer(t *testing.T) {
	isolate(t)
	cfg := config.DefaultConfig()
	cfg.Database.URL = "memory://"
	cfg.Server.ShutdownTimeout = config.Duration(2 * time.Second)

	seedPath := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(`{"books":[{"id":1,"title":"Go","author":"X","publisher":"Y"}]}`), 0644))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- runServer(ctx, cfg, &ServeOptions{Seed: seedPath}, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(base + "/api/books/1")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"title":"Go","author":"X","publisher":"Y"}`, string(body))

	resp, err = http.Post(base+"/api/books", "application/json", strings.NewReader(`{"id":2,"title":"Rust","author":"A","publisher":"B"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
