package mirror

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

const (
	defaultGitHubAPI     = "https://api.github.com"
	defaultCommitMessage = "Обновление films.json через бот"
)

// GitHubConfig параметры зеркала в репозитории GitHub
type GitHubConfig struct {
	Repo    string // owner/name
	Branch  string
	Path    string
	Token   string
	APIBase string
	Timeout time.Duration
}

// GitHubMirror коммитит снимок каталога через GitHub contents API
type GitHubMirror struct {
	repo    string
	branch  string
	path    string
	token   string
	apiBase string
	hc      *http.Client
}

// NewGitHubMirror создаёт зеркало. Repo и Token обязательны.
func NewGitHubMirror(cfg GitHubConfig) (*GitHubMirror, error) {
	if cfg.Repo == "" || cfg.Token == "" {
		return nil, fmt.Errorf("github repo and token are required")
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.Path == "" {
		cfg.Path = "films.json"
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultGitHubAPI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &GitHubMirror{
		repo:    cfg.Repo,
		branch:  cfg.Branch,
		path:    strings.TrimLeft(cfg.Path, "/"),
		token:   cfg.Token,
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		hc:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type contentsFile struct {
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

type contentsUpdate struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// Mirror читает текущий sha файла и загружает новый снимок с этим sha.
// Если содержимое не изменилось, коммит не создаётся.
func (g *GitHubMirror) Mirror(ctx context.Context, catalog entity.Catalog) error {
	content, err := catalog.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrMirror, err)
	}

	current, err := g.current(ctx)
	if err != nil {
		return err
	}
	if current != nil && sameContent(current.Content, content) {
		return nil
	}

	update := contentsUpdate{
		Message: defaultCommitMessage,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  g.branch,
	}
	if current != nil {
		update.SHA = current.SHA
	}
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("%w: encode github payload: %v", entity.ErrMirror, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(false), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrMirror, err)
	}
	g.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: github put: %v", entity.ErrMirror, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: github put status %d: %s", entity.ErrMirrorConflict, resp.StatusCode, readSnippet(resp.Body))
	default:
		return fmt.Errorf("%w: github put status %d: %s", entity.ErrMirror, resp.StatusCode, readSnippet(resp.Body))
	}
}

// current возвращает текущую версию файла или nil, если файла ещё нет
func (g *GitHubMirror) current(ctx context.Context) (*contentsFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.contentsURL(true), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMirror, err)
	}
	g.authorize(req)

	resp, err := g.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: github get: %v", entity.ErrMirror, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: github get status %d: %s", entity.ErrMirror, resp.StatusCode, readSnippet(resp.Body))
	}

	var file contentsFile
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode github response: %v", entity.ErrMirror, err)
	}
	return &file, nil
}

func (g *GitHubMirror) contentsURL(withRef bool) string {
	u := fmt.Sprintf("%s/repos/%s/contents/%s", g.apiBase, g.repo, g.path)
	if withRef {
		u += "?ref=" + url.QueryEscape(g.branch)
	}
	return u
}

func (g *GitHubMirror) authorize(req *http.Request) {
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
}

// sameContent сравнивает base64 из ответа GitHub (с переводами строк) с локальными байтами
func sameContent(remote string, local []byte) bool {
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(remote, "\n", ""))
	if err != nil {
		return false
	}
	return bytes.Equal(decoded, local)
}

func readSnippet(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4096))
	return strings.TrimSpace(string(body))
}

var _ port.CatalogMirror = (*GitHubMirror)(nil)
