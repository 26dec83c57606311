package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"bankdocs-backend/internal/aml"
	"bankdocs-backend/internal/classify"
	"bankdocs-backend/internal/documents"
	"bankdocs-backend/internal/kyc"
	"bankdocs-backend/internal/layout"
	"bankdocs-backend/internal/llm"
	openai "bankdocs-backend/internal/llm/openai"
	"bankdocs-backend/internal/processing"
	"bankdocs-backend/internal/queue"
	"bankdocs-backend/internal/shared/config"
	"bankdocs-backend/internal/shared/server"
	"bankdocs-backend/internal/shared/storage/db"
	"bankdocs-backend/internal/shared/storage/object"
	localstore "bankdocs-backend/internal/shared/storage/object/local"
	s3store "bankdocs-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies for the API server and the queue worker.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	Queue             queue.Client
	LLM               llm.Client
	Layout            layout.Client
	DocumentsRepo     documents.Repo
	ProcessingService *processing.Service
	ProcessingHandler *processing.Handler
}

// Build prepares shared dependencies and wires the router.
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

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		ProcessingHandler: app.ProcessingHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("BD_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var repo documents.Repo
	if app.DB != nil {
		repo = &documents.PGRepo{DB: app.DB}
	} else {
		repo = documents.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" {
		client, err := openai.NewClient(app.Config.OpenAIAPIKey, app.Config.LLMModel, app.Config.LLMBaseURL)
		if err != nil {
			return err
		}
		llmClient = client
	} else {
		log.Printf("bootstrap: LLM_PROVIDER=%q; classification and KYC extraction degraded", app.Config.LLMProvider)
	}

	layoutClient := layout.Client(layout.PlaceholderClient{})
	if strings.TrimSpace(app.Config.LayoutEndpoint) != "" {
		client, err := layout.NewHTTPClient(app.Config.LayoutEndpoint, app.Config.LayoutAPIKey)
		if err != nil {
			return err
		}
		layoutClient = client
	} else {
		log.Printf("bootstrap: LAYOUT_ENDPOINT empty; PDF text fallback only")
	}

	svc := processing.NewService(
		classify.NewClassifier(llmClient),
		layoutClient,
		kyc.NewProcessor(llmClient, kyc.DefaultRiskFactors()),
		aml.NewValidator(aml.DefaultRuleSet()),
		repo,
		processing.Config{
			ConfidenceThreshold: app.Config.ConfidenceThreshold,
			MaxFileSizeMB:       app.Config.MaxFileSizeMB,
			AllowedExtensions:   app.Config.AllowedExtensions,
		},
	)
	svc.Store = app.Store
	svc.Queue = app.Queue

	app.LLM = llmClient
	app.Layout = layoutClient
	app.DocumentsRepo = repo
	app.ProcessingService = svc
	app.ProcessingHandler = processing.NewHandler(svc)
	return nil
}
