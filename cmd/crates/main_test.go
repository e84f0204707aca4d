package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/crates/internal/adapter/api"
	"github.com/mmcdole/crates/internal/domain"
)

// configDir writes a config.yaml pointing at serverURL and returns its directory
func configDir(t *testing.T, serverURL, token string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	yaml := "server:\n  url: " + serverURL + "\n  token: \"" + token + "\"\n" +
		"logging:\n  file: " + filepath.Join(dir, "crates.log") + "\n" +
		"cache:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"login", "logout", "sync", "search", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "crates dev\n", out)
}

func TestSearchRanksTitleMatchesFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "jazz", r.URL.Query().Get("q"))
		assert.Equal(t, "tok", r.Header.Get(api.AuthHeader))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"users":[{"id":2,"handle":"miles","followerCount":4}],` +
			`"crates":[{"id":6,"name":"Sunday"},{"id":5,"name":"Jazz Nights","user":{"id":2,"handle":"miles"}}]}`))
	}))
	defer srv.Close()
	dir := configDir(t, srv.URL, "tok")

	out, err := execute(t, "", "--config", dir, "search", "jazz")
	require.NoError(t, err)

	assert.Contains(t, out, "miles")
	assert.Contains(t, out, "4 followers")
	assert.Contains(t, out, "by miles")
	jazz, sunday := strings.Index(out, "Jazz Nights"), strings.Index(out, "Sunday")
	require.GreaterOrEqual(t, jazz, 0)
	require.GreaterOrEqual(t, sunday, 0)
	assert.Less(t, jazz, sunday)
}

func TestSearchRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "", "search", "--format", "xml", "jazz")
	assert.ErrorContains(t, err, "invalid format")
}

func TestSyncRequiresSignIn(t *testing.T) {
	dir := configDir(t, "http://127.0.0.1:1", "")

	_, err := execute(t, "", "--config", dir, "sync")
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
}

func TestLoginVerifiesAndSavesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(api.AuthHeader) != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"status":401,"message":"bad token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"displayName":"Miles","handle":"miles"}`))
	}))
	defer srv.Close()
	dir := configDir(t, srv.URL, "")

	_, err := execute(t, "bad\n", "--config", dir, "login", "--no-browser")
	assert.ErrorContains(t, err, "rejected")

	out, err := execute(t, "good\n", "--config", dir, "login", "--no-browser")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Miles (@miles)")
	assert.Contains(t, out, srv.URL+"/v1/auth/login")

	saved, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "good")
}

func TestReadTokenFromPipe(t *testing.T) {
	var out bytes.Buffer
	token, err := readToken(strings.NewReader("  abc \n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Contains(t, out.String(), "Paste token")

	token, err = readToken(strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestPromoteKeepsUnrankedResults(t *testing.T) {
	all := []domain.Crate{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}
	got := promote([]domain.Crate{all[2]}, all, func(c domain.Crate) int64 { return c.ID })
	assert.Equal(t, []domain.Crate{all[2], all[0], all[1]}, got)
}
