package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/cvs"
	"cv-backend/internal/extract"
	"cv-backend/internal/fields"
	openai "cv-backend/internal/llm/openai"
	"cv-backend/internal/services/health"
	"cv-backend/internal/shared/config"
	"cv-backend/internal/shared/server"
	"cv-backend/internal/shared/storage/db"
	"cv-backend/internal/shared/storage/object"
	localstore "cv-backend/internal/shared/storage/object/local"
	s3store "cv-backend/internal/shared/storage/object/s3"
	"cv-backend/internal/shared/telemetry"
	"cv-backend/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	Repo      cvs.Repo
	Service   *cvs.Service
	Handler   *cvs.Handler
	Receiver  *uploads.Receiver
	Extractor cvs.FieldExtractor
}

// Build wires configuration into repositories, extractors and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fx, strategy, err := BuildFieldExtractor(cfg)
	if err != nil {
		return nil, err
	}

	var repo cvs.Repo
	if sqlDB != nil {
		repo = &cvs.SQLRepo{DB: sqlDB}
	} else {
		repo = cvs.NewMemoryRepo()
	}

	receiver := uploads.NewReceiver(store)
	svc := &cvs.Service{
		Text:     extract.Extractor{},
		Fields:   fx,
		Strategy: strategy,
		Repo:     repo,
	}
	handler := cvs.NewHandler(svc, receiver, cfg.UploadMaxBytes)

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Repo:      repo,
		Service:   svc,
		Handler:   handler,
		Receiver:  receiver,
		Extractor: fx,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		CVs:    handler,
		Health: health.NewService(sqlDB),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"strategy":     strategy,
		"object_store": cfg.ObjectStoreType,
		"repository":   repoKind(sqlDB, cfg.DatabaseURL),
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// BuildFieldExtractor selects the field extraction strategy. Without an API
// key the delegated strategy falls back to patterns outside production.
func BuildFieldExtractor(cfg config.Config) (cvs.FieldExtractor, string, error) {
	strategy := config.NormalizeStrategy(cfg.ExtractionStrategy, cfg.OpenAIAPIKey)
	if strategy == fields.StrategyPattern {
		return fields.Pattern{}, fields.StrategyPattern, nil
	}

	client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.llm_unavailable", map[string]any{
				"error":    err,
				"fallback": fields.StrategyPattern,
			})
			return fields.Pattern{}, fields.StrategyPattern, nil
		}
		return nil, "", fmt.Errorf("configure llm strategy: %w", err)
	}
	telemetry.Info("bootstrap.llm_client", map[string]any{"provider": "openai", "model": client.Model()})
	return fields.NewDelegated(client, cfg.LLMTemperature, cfg.LLMMaxTokens), fields.StrategyLLM, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repository", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB, db.DialectFor(cfg.DatabaseURL))
		if err != nil {
			_ = sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repository", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.UploadDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func repoKind(sqlDB *sql.DB, url string) string {
	if sqlDB == nil {
		return "memory"
	}
	return string(db.DialectFor(url))
}
