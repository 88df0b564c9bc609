// Package source loads the question bank from its data file.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/domain"
)

var (
	// ErrFetchFailure covers network errors, non-2xx responses, unreadable
	// files and malformed JSON.
	ErrFetchFailure = errors.New("fetch failure")

	// ErrInvalidDataShape means the document has no usable questions array.
	ErrInvalidDataShape = errors.New("invalid data shape")
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxDocumentSize     = 10 << 20
)

// Result is the outcome of a load. Err holds the recovered error when the
// fallback set was substituted.
type Result struct {
	Questions []domain.Question
	Origin    domain.LoadOrigin
	Source    string
	Skipped   int
	Err       error
}

// Loader reads the question document from a local path or an http(s) URL.
type Loader struct {
	source  string
	client  *http.Client
	timeout time.Duration
}

// NewLoader creates a loader for source. A zero timeout uses the default.
func NewLoader(source string, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Loader{
		source:  source,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// WithClient replaces the HTTP client used for remote sources.
func (l *Loader) WithClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// Source returns the configured location.
func (l *Loader) Source() string {
	return l.source
}

// Load fetches the question set once. Any failure is logged and the
// built-in fallback set is returned in its place; Load itself never fails.
func (l *Loader) Load(ctx context.Context) Result {
	questions, skipped, err := l.Fetch(ctx)
	if err != nil {
		slog.Warn("Could not load question data, using built-in questions",
			"source", l.source,
			"error", err)
		return Result{
			Questions: bank.FallbackQuestions(),
			Origin:    domain.OriginFallback,
			Source:    l.source,
			Err:       err,
		}
	}

	slog.Info("Question data loaded", "source", l.source, "count", len(questions), "skipped", skipped)
	return Result{
		Questions: questions,
		Origin:    domain.OriginRemote,
		Source:    l.source,
		Skipped:   skipped,
	}
}

// Fetch reads and decodes the document without falling back. It returns
// the valid questions and the number of records skipped as invalid.
func (l *Loader) Fetch(ctx context.Context) ([]domain.Question, int, error) {
	if strings.TrimSpace(l.source) == "" {
		return nil, 0, fmt.Errorf("%w: no data source configured", ErrFetchFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var (
		data []byte
		err  error
	)
	if isRemote(l.source) {
		data, err = l.fetchRemote(ctx)
	} else {
		data, err = readFile(l.source)
	}
	if err != nil {
		return nil, 0, err
	}
	return Decode(data)
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (l *Loader) fetchRemote(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d %s", ErrFetchFailure, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchFailure, err)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	return data, nil
}

// Decode parses a question document of the form {"questions": [...]}.
// Records that fail validation are skipped. A document whose questions
// array is missing, is not an array, or holds only invalid records is
// rejected with ErrInvalidDataShape. An empty array is accepted.
func Decode(data []byte) ([]domain.Question, int, error) {
	var doc struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, 0, fmt.Errorf("%w: document is not an object", ErrInvalidDataShape)
		}
		return nil, 0, fmt.Errorf("%w: malformed JSON: %v", ErrFetchFailure, err)
	}

	trimmed := bytes.TrimSpace(doc.Questions)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, 0, fmt.Errorf("%w: questions array not found", ErrInvalidDataShape)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, 0, fmt.Errorf("%w: questions is not an array", ErrInvalidDataShape)
	}

	raws := make([]bank.RawQuestion, 0, len(records))
	skipped := 0
	for i, rec := range records {
		var raw bank.RawQuestion
		if err := json.Unmarshal(rec, &raw); err != nil {
			slog.Warn("Skipping question record", "index", i, "error", err)
			skipped++
			continue
		}
		raws = append(raws, raw)
	}

	normalized, rejected := bank.NormalizeAll(raws)
	for _, err := range rejected {
		slog.Warn("Skipping question record", "error", err)
	}
	skipped += len(rejected)

	// Ids must be unique; the first record with an id wins.
	seen := make(map[int]struct{}, len(normalized))
	questions := normalized[:0]
	for _, q := range normalized {
		if _, dup := seen[q.ID]; dup {
			slog.Warn("Skipping question record with duplicate id", "id", q.ID)
			skipped++
			continue
		}
		seen[q.ID] = struct{}{}
		questions = append(questions, q)
	}

	if len(records) > 0 && len(questions) == 0 {
		return nil, skipped, fmt.Errorf("%w: no valid question among %d records", ErrInvalidDataShape, len(records))
	}
	return questions, skipped, nil
}
