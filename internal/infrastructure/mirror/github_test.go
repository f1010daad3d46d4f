package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"kino-bot/internal/domain/entity"
)

type fakeGitHub struct {
	mu      sync.Mutex
	file    *contentsFile
	puts    []contentsUpdate
	putCode int
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		require.Equal(t, "/repos/owner/films/contents/data/films.json", r.URL.Path)
		require.Equal(t, "token secret", r.Header.Get("Authorization"))

		switch r.Method {
		case http.MethodGet:
			require.Equal(t, "dev", r.URL.Query().Get("ref"))
			if f.file == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(f.file)
		case http.MethodPut:
			var upd contentsUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&upd))
			f.puts = append(f.puts, upd)
			if f.putCode != 0 {
				w.WriteHeader(f.putCode)
				return
			}
			f.file = &contentsFile{SHA: "sha-new", Content: upd.Content}
			w.WriteHeader(http.StatusCreated)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})
}

func (f *fakeGitHub) putCalls() []contentsUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]contentsUpdate(nil), f.puts...)
}

func newTestGitHubMirror(t *testing.T, fake *fakeGitHub) *GitHubMirror {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	m, err := NewGitHubMirror(GitHubConfig{
		Repo:    "owner/films",
		Branch:  "dev",
		Path:    "/data/films.json",
		Token:   "secret",
		APIBase: srv.URL,
	})
	require.NoError(t, err)
	return m
}

func testCatalog() entity.Catalog {
	return entity.Catalog{"123": {Code: "123", Title: "Inception", MediaRef: entity.MediaRef{FileID: "vid"}}}
}

func TestGitHubMirror_CreatesFileWithoutSHA(t *testing.T) {
	fake := &fakeGitHub{}
	m := newTestGitHubMirror(t, fake)

	require.NoError(t, m.Mirror(context.Background(), testCatalog()))

	puts := fake.putCalls()
	require.Len(t, puts, 1)
	require.Empty(t, puts[0].SHA)
	require.Equal(t, "dev", puts[0].Branch)
	require.Equal(t, defaultCommitMessage, puts[0].Message)

	content, err := base64.StdEncoding.DecodeString(puts[0].Content)
	require.NoError(t, err)
	expected, err := testCatalog().Encode()
	require.NoError(t, err)
	require.Equal(t, expected, content)
}

func TestGitHubMirror_UpdatesWithCurrentSHA(t *testing.T) {
	fake := &fakeGitHub{file: &contentsFile{SHA: "sha-old", Content: base64.StdEncoding.EncodeToString([]byte("{}\n"))}}
	m := newTestGitHubMirror(t, fake)

	require.NoError(t, m.Mirror(context.Background(), testCatalog()))

	puts := fake.putCalls()
	require.Len(t, puts, 1)
	require.Equal(t, "sha-old", puts[0].SHA)
}

func TestGitHubMirror_SkipsUnchangedContent(t *testing.T) {
	fake := &fakeGitHub{}
	m := newTestGitHubMirror(t, fake)
	ctx := context.Background()

	require.NoError(t, m.Mirror(ctx, testCatalog()))
	require.NoError(t, m.Mirror(ctx, testCatalog()))

	puts := fake.putCalls()
	require.Len(t, puts, 1)
}

func TestGitHubMirror_Conflict(t *testing.T) {
	fake := &fakeGitHub{putCode: http.StatusConflict}
	m := newTestGitHubMirror(t, fake)

	err := m.Mirror(context.Background(), testCatalog())
	require.ErrorIs(t, err, entity.ErrMirrorConflict)
	require.ErrorIs(t, err, entity.ErrMirror)
}

func TestGitHubMirror_ServerError(t *testing.T) {
	fake := &fakeGitHub{putCode: http.StatusInternalServerError}
	m := newTestGitHubMirror(t, fake)

	err := m.Mirror(context.Background(), testCatalog())
	require.ErrorIs(t, err, entity.ErrMirror)
	require.NotErrorIs(t, err, entity.ErrMirrorConflict)
}

func TestNewGitHubMirror_RequiresRepoAndToken(t *testing.T) {
	_, err := NewGitHubMirror(GitHubConfig{Repo: "owner/films"})
	require.Error(t, err)
}
