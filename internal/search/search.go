package search

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gradeflow/internal/apperr"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Hit is one web result. Snippet is empty when the engine returned none.
type Hit struct {
	URL     string
	Snippet string
}

type Query struct {
	APIKey   string
	EngineID string
	Text     string
}

type Engine interface {
	Search(ctx context.Context, q Query) ([]Hit, error)
}

// GoogleEngine queries the Programmable Search (Custom Search JSON) API.
type GoogleEngine struct {
	endpoint string
	client   *http.Client
}

// NewGoogleEngine builds an engine. An empty endpoint uses Google's default.
func NewGoogleEngine(endpoint string, timeout time.Duration) *GoogleEngine {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleEngine{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *GoogleEngine) Search(ctx context.Context, q Query) ([]Hit, error) {
	opts := []option.ClientOption{option.WithHTTPClient(g.client)}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(g.endpoint, "/")+"/"))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, apperr.Internal("search", err)
	}
	res, err := svc.Cse.List().Cx(q.EngineID).Q(q.Text).Context(ctx).Do(googleapi.QueryParameter("key", q.APIKey))
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, apperr.Upstream("search", gerr.Code, gerr.Body, err)
		}
		return nil, apperr.Upstream("search", 0, "", redactQuery(err))
	}
	hits := make([]Hit, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil {
			continue
		}
		hits = append(hits, Hit{URL: item.Link, Snippet: item.Snippet})
	}
	return hits, nil
}

// redactQuery drops the query string from transport errors; it carries the key.
func redactQuery(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if u, perr := url.Parse(uerr.URL); perr == nil {
			u.RawQuery = ""
			uerr.URL = u.String()
		}
	}
	return err
}
