package plagiarism

import (
	"context"
	"sort"
	"strings"
	"time"

	"gradeflow/internal/apperr"
	"gradeflow/internal/credentials"
	"gradeflow/internal/logger"
	"gradeflow/internal/search"
	"gradeflow/internal/similarity"
	"gradeflow/internal/storage"
	"gradeflow/internal/util"
)

const (
	// QueryMaxChars bounds the search query to the first characters of the text.
	QueryMaxChars    = 300
	DefaultThreshold = 40
)

type Request struct {
	Text      string
	Threshold int
}

type Match struct {
	URL        string `json:"url"`
	Similarity int    `json:"similarity"`
}

type Pipeline struct {
	log    *logger.Logger
	engine search.Engine
	audit  storage.CallRecorder
	score  func(a, b string) int
}

func NewPipeline(log *logger.Logger, engine search.Engine, audit storage.CallRecorder) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	if audit == nil {
		audit = storage.NopRecorder{}
	}
	return &Pipeline{
		log:    log.With("service", "PlagiarismPipeline"),
		engine: engine,
		audit:  audit,
		score:  similarity.TokenSetRatio,
	}
}

// Check searches the web for the opening of the text and returns every hit
// whose snippet scores at least the threshold, best first.
func (p *Pipeline) Check(ctx context.Context, req Request, creds credentials.Credentials) ([]Match, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperr.Validation("check_plagiarism", "text cannot be empty")
	}
	if req.Threshold < 0 || req.Threshold > 100 {
		return nil, apperr.Validation("check_plagiarism", "similarity_threshold must be between 0 and 100")
	}
	if !creds.HasSearch() {
		return nil, apperr.Configuration("check_plagiarism", "google api key and search engine id are required")
	}

	started := time.Now()
	hits, err := p.engine.Search(ctx, search.Query{
		APIKey:   creds.SearchAPIKey,
		EngineID: creds.SearchEngineID,
		Text:     BuildQuery(text),
	})
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			err = apperr.Upstream("check_plagiarism", 0, "", err)
		}
		p.record(ctx, text, started, err)
		return nil, err
	}
	p.record(ctx, text, started, nil)
	return Rank(text, hits, req.Threshold, p.score), nil
}

// BuildQuery truncates text to QueryMaxChars characters.
func BuildQuery(text string) string {
	return util.TruncateRunes(text, QueryMaxChars)
}

// Rank scores every hit that has a URL, orders by similarity descending with
// source order kept among ties, and drops matches below threshold.
func Rank(text string, hits []search.Hit, threshold int, score func(a, b string) int) []Match {
	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		if strings.TrimSpace(h.URL) == "" {
			continue
		}
		matches = append(matches, Match{URL: h.URL, Similarity: score(text, h.Snippet)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Similarity >= threshold {
			out = append(out, m)
		}
	}
	return out
}

func (p *Pipeline) record(ctx context.Context, text string, started time.Time, err error) {
	rec := storage.CallRecord{
		Operation: "check_plagiarism",
		Provider:  "google_cse",
		InputHash: util.SHA256Hex([]byte(text)),
		Status:    "ok",
		LatencyMS: time.Since(started).Milliseconds(),
	}
	if err != nil {
		rec.Status = "failed"
		rec.ErrorKind = string(apperr.KindOf(err))
		p.log.Warn("search call failed", "error", err, "latency_ms", rec.LatencyMS)
	}
	if aerr := p.audit.RecordCall(ctx, rec); aerr != nil {
		p.log.Warn("audit record failed", "error", aerr)
	}
}
