package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

const searchLimit = 5

// Client HTTP-клиент агрегатора фильмов
type Client struct {
	apiBase string
	hc      *http.Client
}

// NewClient создаёт клиент с таймаутом на каждый запрос
func NewClient(apiBase string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

type searchResult struct {
	ID    any    `json:"id"`
	Title string `json:"title"`
	Name  string `json:"name"`
	Year  any    `json:"year"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Data    struct {
		Results []searchResult `json:"results"`
	} `json:"data"`
}

type tracksResponse struct {
	Tracks []entity.Track `json:"tracks"`
	Data   struct {
		Tracks []entity.Track `json:"tracks"`
	} `json:"data"`
}

// Search ищет фильмы по названию
func (c *Client) Search(ctx context.Context, title string) ([]entity.Candidate, error) {
	u, err := url.Parse(c.apiBase + "/api/v1/search")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUpstream, err)
	}
	q := u.Query()
	q.Set("query", title)
	q.Set("limit", strconv.Itoa(searchLimit))
	u.RawQuery = q.Encode()

	var resp searchResponse
	if err := c.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, err
	}

	results := resp.Results
	if len(results) == 0 {
		results = resp.Data.Results
	}
	candidates := make([]entity.Candidate, 0, len(results))
	for _, r := range results {
		id := stringify(r.ID)
		name := r.Title
		if name == "" {
			name = r.Name
		}
		if id == "" || name == "" {
			continue
		}
		candidates = append(candidates, entity.Candidate{ID: id, Title: name, Year: stringify(r.Year)})
	}
	return candidates, nil
}

// Tracks возвращает озвучки и качества для фильма
func (c *Client) Tracks(ctx context.Context, candidateID string) ([]entity.Track, error) {
	u := fmt.Sprintf("%s/api/v1/media/%s/tracks", c.apiBase, url.PathEscape(candidateID))

	var resp tracksResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	tracks := resp.Tracks
	if len(tracks) == 0 {
		tracks = resp.Data.Tracks
	}
	out := make([]entity.Track, 0, len(tracks))
	for _, t := range tracks {
		qualities := make([]entity.Quality, 0, len(t.Qualities))
		for _, q := range t.Qualities {
			if q.URL != "" {
				qualities = append(qualities, q)
			}
		}
		if len(qualities) == 0 {
			continue
		}
		out = append(out, entity.Track{Name: t.Name, Qualities: qualities})
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", entity.ErrUpstream, resp.StatusCode, string(body))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode: %v", entity.ErrUpstream, err)
	}
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

var _ port.MediaResolver = (*Client)(nil)
