package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/dskvich/ai-assistant/pkg/api"
	apihandler "github.com/dskvich/ai-assistant/pkg/api/handler"
	"github.com/dskvich/ai-assistant/pkg/auth"
	"github.com/dskvich/ai-assistant/pkg/cli"
	"github.com/dskvich/ai-assistant/pkg/database"
	"github.com/dskvich/ai-assistant/pkg/domain"
	"github.com/dskvich/ai-assistant/pkg/edenai"
	"github.com/dskvich/ai-assistant/pkg/logger"
	"github.com/dskvich/ai-assistant/pkg/repository"
	"github.com/dskvich/ai-assistant/pkg/services"
	"github.com/dskvich/ai-assistant/pkg/speech"
	"github.com/dskvich/ai-assistant/pkg/telegram"
	"github.com/dskvich/ai-assistant/pkg/vision"
	"github.com/dskvich/ai-assistant/pkg/workers"
)

type Config struct {
	GroqAPIKey  string `env:"GROQ_API_KEY,required,notEmpty"`
	GroqAPIURL  string `env:"GROQ_API_URL"`
	VisionModel string `env:"VISION_MODEL"`

	EdenAPIKey string `env:"EDEN_API_KEY,required,notEmpty"`
	EdenAPIURL string `env:"EDEN_API_URL"`

	SpeechAPIKey string `env:"SPEECH_API_KEY"`
	SpeechAPIURL string `env:"SPEECH_API_URL"`
	SpeechModel  string `env:"SPEECH_MODEL"`
	SpeechVoice  string `env:"SPEECH_VOICE"`

	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"0s"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	TelegramBotToken          string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAuthorizedUserIDs []int64 `env:"TELEGRAM_AUTHORIZED_USER_IDS" envSeparator:" "`

	PgURL      string `env:"DATABASE_URL"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"saved_responses.db"`

	LogLevel   string `env:"LOG_LEVEL" envDefault:"debug"`
	LogNoColor bool   `env:"LOG_NO_COLOR"`
}

const usage = `usage: ai-assistant [command]

commands:
  serve               run the web server and telegram bot (default)
  cli                 interactive menu
  describe <path>     describe an image and exit
  generate <prompt>   generate an image and print its URL`

// assistant is what every front-end needs from the assistant service.
type assistant interface {
	apihandler.Assistant
	cli.Assistant
	telegram.Assistant
}

type command struct {
	name string
	arg  string
}

func parseArgs(args []string) (command, error) {
	if len(args) == 0 {
		return command{name: "serve"}, nil
	}

	switch name := args[0]; name {
	case "serve", "cli":
		if len(args) > 1 {
			return command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return command{name: name}, nil
	case "describe":
		if len(args) != 2 || args[1] == "" {
			return command{}, errors.New("describe needs exactly one image path")
		}
		return command{name: name, arg: args[1]}, nil
	case "generate":
		prompt := strings.TrimSpace(strings.Join(args[1:], " "))
		if prompt == "" {
			return command{}, errors.New("generate needs a prompt")
		}
		return command{name: name, arg: prompt}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", name)
	}
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(os.Args[1:]); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain(args []string) error {
	cmd, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		return err
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}
	setupLogger(cfg)

	db, dialect, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := setupAssistant(cfg, db, dialect)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	switch cmd.name {
	case "describe":
		return describeOnce(ctx, svc, cmd.arg)
	case "generate":
		return generateOnce(ctx, svc, cmd.arg)
	case "cli":
		return runCLI(ctx, svc)
	default:
		return serve(ctx, cfg, svc)
	}
}

func setupLogger(cfg Config) {
	opts := *logger.DefaultOptions
	opts.Level = logger.ParseLevel(cfg.LogLevel)
	opts.NoColor = cfg.LogNoColor
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))
}

func openDatabase(cfg Config) (*sql.DB, database.Dialect, error) {
	if cfg.PgURL != "" {
		db, err := database.NewPostgres(cfg.PgURL)
		if err != nil {
			return nil, "", fmt.Errorf("creating postgres db: %w", err)
		}
		return db, database.Postgres, nil
	}

	db, err := database.NewSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, "", fmt.Errorf("creating sqlite db: %w", err)
	}
	return db, database.SQLite, nil
}

func setupAssistant(cfg Config, db *sql.DB, dialect database.Dialect) (assistant, error) {
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	visionClient, err := vision.NewClient(vision.Config{
		Token:      cfg.GroqAPIKey,
		BaseURL:    cfg.GroqAPIURL,
		Model:      cfg.VisionModel,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}

	edenClient, err := edenai.NewClient(edenai.Config{
		Token:      cfg.EdenAPIKey,
		URL:        cfg.EdenAPIURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("creating eden ai client: %w", err)
	}

	var synthesizer services.SpeechSynthesizer
	if cfg.SpeechAPIKey != "" {
		speechClient, err := speech.NewClient(speech.Config{
			Token:      cfg.SpeechAPIKey,
			BaseURL:    cfg.SpeechAPIURL,
			Model:      cfg.SpeechModel,
			Voice:      cfg.SpeechVoice,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("creating speech client: %w", err)
		}
		synthesizer = speechClient
	} else {
		slog.Info("speech disabled, SPEECH_API_KEY is not set")
	}

	svc, err := services.NewAssistantService(
		visionClient,
		edenClient,
		synthesizer,
		repository.NewHistoryRepository(db, dialect),
	)
	if err != nil {
		return nil, fmt.Errorf("creating assistant service: %w", err)
	}
	return svc, nil
}

func describeOnce(ctx context.Context, svc assistant, path string) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	description, err := svc.Describe(ctx, filepath.Base(path), image)
	if err != nil {
		return err
	}

	fmt.Println(description)
	return nil
}

func generateOnce(ctx context.Context, svc assistant, prompt string) error {
	imageURL, err := svc.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	fmt.Println(imageURL)
	return nil
}

func runCLI(ctx context.Context, svc assistant) error {
	rl, err := cli.NewReadline()
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	return cli.New(svc, rl, rl.Stdout(), wd).Run(ctx)
}

func serve(ctx context.Context, cfg Config, svc assistant) error {
	workerGroup, cleanup, err := setupWorkers(cfg, svc)
	if err != nil {
		return err
	}
	defer cleanup()

	return workerGroup.Start(ctx)
}

func setupWorkers(cfg Config, svc assistant) (workers.Group, func(), error) {
	var workerGroup workers.Group
	cleanup := func() {}

	router, err := api.NewRouter(svc)
	if err != nil {
		return nil, nil, fmt.Errorf("creating router: %w", err)
	}
	workerGroup = append(workerGroup, workers.NewHTTPServer(cfg.HTTPAddr, router))

	if cfg.TelegramBotToken == "" {
		slog.Info("telegram bot disabled, TELEGRAM_BOT_TOKEN is not set")
		return workerGroup, cleanup, nil
	}

	telegramClient, err := telegram.NewClient(cfg.TelegramBotToken)
	if err != nil {
		return nil, nil, fmt.Errorf("creating telegram client: %w", err)
	}
	authenticator := auth.NewAuthenticator(cfg.TelegramAuthorizedUserIDs)

	responseCh := make(chan domain.Response)
	telegramHandler := telegram.NewHandler(svc, telegramClient, responseCh)

	worker, err := workers.NewTelegramUpdateListener(
		telegramClient,
		authenticator,
		telegramHandler,
		responseCh,
	)
	if err != nil {
		return nil, nil, err
	}

	return append(workerGroup, worker), telegramClient.Stop, nil
}
