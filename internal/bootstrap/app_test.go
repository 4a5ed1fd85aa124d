package bootstrap

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/cvs"
	"cv-backend/internal/fields"
	"cv-backend/internal/shared/config"
)

func TestBuildFieldExtractor(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    string
		wantErr bool
	}{
		{name: "default without key", cfg: config.Config{Env: "dev"}, want: fields.StrategyPattern},
		{name: "default with key", cfg: config.Config{Env: "dev", OpenAIAPIKey: "k", LLMModel: "gpt-4o-mini"}, want: fields.StrategyLLM},
		{name: "explicit pattern with key", cfg: config.Config{Env: "dev", ExtractionStrategy: "pattern", OpenAIAPIKey: "k"}, want: fields.StrategyPattern},
		{name: "llm without key in dev", cfg: config.Config{Env: "dev", ExtractionStrategy: "llm", LLMModel: "gpt-4o-mini"}, want: fields.StrategyPattern},
		{name: "llm without key in production", cfg: config.Config{Env: "production", ExtractionStrategy: "llm", LLMModel: "gpt-4o-mini"}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fx, strategy, err := BuildFieldExtractor(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildFieldExtractor: %v", err)
			}
			if strategy != tt.want || fx == nil {
				t.Fatalf("strategy = %q, want %q", strategy, tt.want)
			}
			if _, isDelegated := fx.(*fields.Delegated); isDelegated != (tt.want == fields.StrategyLLM) {
				t.Fatalf("unexpected extractor type %T", fx)
			}
		})
	}
}

func TestBuildRequiresDatabaseInProduction(t *testing.T) {
	if _, err := Build(config.Config{Env: "production", UploadDir: t.TempDir()}); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildWithSQLiteServesUploads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		UploadDir:       t.TempDir(),
		DatabaseURL:     "sqlite:" + filepath.Join(t.TempDir(), "cvs.db"),
		CORSAllowOrigin: []string{"*"},
	}
	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	if app.DB == nil {
		t.Fatalf("expected sqlite database")
	}
	if _, ok := app.Repo.(*cvs.SQLRepo); !ok {
		t.Fatalf("expected SQL repository, got %T", app.Repo)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", "cv.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write([]byte("Name: Jane Doe\nSkills: Go"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cvs", nil)
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	var records []cvs.PersistedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Jane Doe" || records[0].Skills[0] != "Go" {
		t.Fatalf("unexpected records %#v", records)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !bytes.Contains(resp.Body.Bytes(), []byte(`"database":"up"`)) {
		t.Fatalf("unexpected health response %d %s", resp.Code, resp.Body.String())
	}
}
