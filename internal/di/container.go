package di

import (
	"context"
	"fmt"

	"gurney/internal/application/port/input"
	"gurney/internal/application/port/output"
	"gurney/internal/application/service"
	"gurney/internal/application/usecase"
	"gurney/internal/infrastructure/artifacts"
	"gurney/internal/infrastructure/browser/rod"
	"gurney/internal/infrastructure/llm/openaicompat"
	"gurney/internal/infrastructure/logger"
)

type Container struct {
	Browser output.BrowserPort
	LLM     output.LLMPort
	Logger  output.LoggerPort
	Runner  input.GoalRunner
}

type Config struct {
	Endpoint string
	Model    string
	APIKey   string

	MaxSteps int
	Headless bool

	Username string
	Password string

	ScreenshotDir string
	SystemPrompt  string

	// Task names the per-run log file.
	Task string
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewZapAdapter(cfg.Task)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Headless
	browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	llm := openaicompat.NewAdapter(openaicompat.Config{
		BaseURL: cfg.Endpoint,
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		Logger:  log,
	})

	creds := service.NewCredentialInjector(cfg.Username, cfg.Password, log)
	shots := artifacts.NewStore(cfg.ScreenshotDir)

	ucCfg := usecase.DefaultConfig()
	if cfg.MaxSteps > 0 {
		ucCfg.MaxSteps = cfg.MaxSteps
	}
	if cfg.SystemPrompt != "" {
		ucCfg.SystemPrompt = cfg.SystemPrompt
	}

	runner := usecase.New(browser, llm, shots, creds, log, ucCfg)

	return &Container{
		Browser: browser,
		LLM:     llm,
		Logger:  log,
		Runner:  runner,
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
