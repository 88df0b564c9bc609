package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rahulpattadi/toppers/internal/domain"
)

const sampleDoc = `{
	"chapter": "Electric Current",
	"questions": [
		{
			"id": 101,
			"text": "Define one ampere.",
			"difficulty": "easy",
			"type": "conceptual",
			"tags": ["current"],
			"solution": {
				"approach": "Relate charge and time",
				"steps": [{"description": "I = Q/t", "calculation": ["1 A = 1 C / 1 s"]}],
				"answer": "1 C of charge per second"
			}
		},
		{
			"id": 102,
			"text": "Derive the series resistance formula.",
			"difficulty": "hard",
			"type": "derivation",
			"tags": ["series-circuit"]
		}
	]
}`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoad_RemoteSuccess(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleDoc)

	res := NewLoader(srv.URL, time.Second).Load(context.Background())

	if res.Err != nil {
		t.Fatalf("Unexpected error: %v", res.Err)
	}
	if res.Origin != domain.OriginRemote {
		t.Errorf("Expected remote origin, got %q", res.Origin)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(res.Questions))
	}
	q := res.Questions[0]
	if q.ID != 101 || q.Formula != domain.DefaultFormula {
		t.Errorf("Unexpected first question %+v", q)
	}
	if len(q.Steps) != 1 || q.Steps[0] != "I = Q/t\n1 A = 1 C / 1 s" {
		t.Errorf("Unexpected steps %#v", q.Steps)
	}
	if res.Questions[1].Solution != domain.DefaultSolution {
		t.Errorf("Expected default solution for second question, got %q", res.Questions[1].Solution)
	}
}

func TestLoad_FallsBack(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "oops", wantErr: ErrFetchFailure},
		{name: "not found", status: http.StatusNotFound, body: "", wantErr: ErrFetchFailure},
		{name: "malformed JSON", status: http.StatusOK, body: `{"questions": [`, wantErr: ErrFetchFailure},
		{name: "missing questions", status: http.StatusOK, body: `{"items": []}`, wantErr: ErrInvalidDataShape},
		{name: "questions not an array", status: http.StatusOK, body: `{"questions": {"id": 1}}`, wantErr: ErrInvalidDataShape},
		{name: "top-level array", status: http.StatusOK, body: `[{"id": 1}]`, wantErr: ErrInvalidDataShape},
		{name: "only invalid records", status: http.StatusOK, body: `{"questions": [{"id": 1}, "x"]}`, wantErr: ErrInvalidDataShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)

			res := NewLoader(srv.URL, time.Second).Load(context.Background())

			if !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, res.Err)
			}
			if res.Origin != domain.OriginFallback {
				t.Errorf("Expected fallback origin, got %q", res.Origin)
			}
			if len(res.Questions) != 9 {
				t.Errorf("Expected 9 fallback questions, got %d", len(res.Questions))
			}
		})
	}
}

func TestLoad_NetworkErrorFallsBack(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleDoc)
	url := srv.URL
	srv.Close()

	res := NewLoader(url, time.Second).Load(context.Background())

	if !errors.Is(res.Err, ErrFetchFailure) || res.Origin != domain.OriginFallback {
		t.Errorf("Expected fetch failure fallback, got origin=%q err=%v", res.Origin, res.Err)
	}
}

func TestFetch_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "electric-current.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatalf("Failed to write data file: %v", err)
	}

	questions, skipped, err := NewLoader(path, 0).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(questions) != 2 || skipped != 0 {
		t.Errorf("Expected 2 questions and 0 skipped, got %d and %d", len(questions), skipped)
	}

	_, _, err = NewLoader(filepath.Join(dir, "missing.json"), 0).Fetch(context.Background())
	if !errors.Is(err, ErrFetchFailure) {
		t.Errorf("Expected ErrFetchFailure for missing file, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	t.Run("empty array is valid", func(t *testing.T) {
		questions, skipped, err := Decode([]byte(`{"questions": []}`))
		if err != nil || len(questions) != 0 || skipped != 0 {
			t.Errorf("Decode(empty) = (%d, %d, %v)", len(questions), skipped, err)
		}
	})

	t.Run("skips invalid and duplicate records", func(t *testing.T) {
		doc := `{"questions": [
			{"id": 1, "text": "a", "difficulty": "easy", "type": "numerical"},
			{"id": 2, "text": "", "difficulty": "easy", "type": "numerical"},
			{"id": 1, "text": "again", "difficulty": "easy", "type": "numerical"},
			7,
			{"id": "3", "text": "c", "difficulty": "MEDIUM", "type": "conceptual"}
		]}`
		questions, skipped, err := Decode([]byte(doc))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(questions) != 2 || questions[0].ID != 1 || questions[1].ID != 3 {
			t.Errorf("Expected questions 1 and 3, got %+v", questions)
		}
		if questions[0].Text != "a" {
			t.Errorf("Expected first record to win, got %q", questions[0].Text)
		}
		if skipped != 3 {
			t.Errorf("Expected 3 skipped, got %d", skipped)
		}
	})

	t.Run("null questions", func(t *testing.T) {
		if _, _, err := Decode([]byte(`{"questions": null}`)); !errors.Is(err, ErrInvalidDataShape) {
			t.Errorf("Expected ErrInvalidDataShape, got %v", err)
		}
	})
}

func TestFetch_NoSource(t *testing.T) {
	if _, _, err := NewLoader("  ", 0).Fetch(context.Background()); !errors.Is(err, ErrFetchFailure) {
		t.Errorf("Expected ErrFetchFailure, got %v", err)
	}
}
