package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gurney/internal/application/port/input"
	"gurney/internal/di"
	"gurney/internal/infrastructure/env"
	"gurney/internal/transport/httpapi"
)

const (
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultModel    = "gemini-2.0-flash"

	runTimeout = 30 * time.Minute
)

func main() {
	root := &cobra.Command{
		Use:           "gurney",
		Short:         "Web-browsing agent powered by an OpenAI-compatible LLM",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newRunCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		prompt     string
		url        string
		endpoint   string
		model      string
		apiKey     string
		maxSteps   int
		noHeadless bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the agent against a goal on a website",
		Example: `  gurney run --prompt "Find the pricing plans" --url https://example.com
  gurney run --prompt "Log in and describe the dashboard" --url https://example.com --no-headless`,
		RunE: func(cmd *cobra.Command, args []string) error {
			envService := env.NewEnvService()
			if apiKey == "" {
				apiKey = envService.GetWithDefault("GURNEY_API_KEY", "no-key")
			}

			ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
			defer cancel()

			container, err := di.NewContainer(ctx, di.Config{
				Endpoint: endpoint,
				Model:    model,
				APIKey:   apiKey,
				MaxSteps: maxSteps,
				Headless: !noHeadless,
				Username: envService.Get("GURNEY_USERNAME"),
				Password: envService.Get("GURNEY_PASSWORD"),
				Task:     prompt,
			})
			if err != nil {
				return err
			}
			defer container.Close()

			result, err := container.Runner.Run(ctx, prompt, url)
			if err != nil {
				return fmt.Errorf("agent run failed: %w", err)
			}

			if !result.Success {
				return fmt.Errorf("no answer: %s after %d steps", result.Reason, result.Steps)
			}

			fmt.Println(result.Answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Goal / task for the agent")
	cmd.Flags().StringVar(&url, "url", "", "Starting URL")
	cmd.Flags().StringVar(&endpoint, "endpoint", defaultEndpoint, "OpenAI-compatible API base URL")
	cmd.Flags().StringVar(&model, "model", defaultModel, "Model name")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (default: GURNEY_API_KEY env)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 20, "Max interaction steps")
	cmd.Flags().BoolVar(&noHeadless, "no-headless", false, "Show the browser window")
	_ = cmd.MarkFlagRequired("prompt")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		addr     string
		endpoint string
		model    string
		apiKey   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent over HTTP (POST /run, GET /health)",
		RunE: func(cmd *cobra.Command, args []string) error {
			envService := env.NewEnvService()
			if apiKey == "" {
				apiKey = envService.GetWithDefault("GURNEY_API_KEY", "no-key")
			}

			username := envService.Get("GURNEY_USERNAME")
			password := envService.Get("GURNEY_PASSWORD")

			factory := func(ctx context.Context, task string, maxSteps int) (input.GoalRunner, func(), error) {
				container, err := di.NewContainer(ctx, di.Config{
					Endpoint: endpoint,
					Model:    model,
					APIKey:   apiKey,
					MaxSteps: maxSteps,
					Headless: true,
					Username: username,
					Password: password,
					Task:     task,
				})
				if err != nil {
					return nil, nil, err
				}
				return container.Runner, container.Close, nil
			}

			srv := httpapi.NewServer(factory)
			fmt.Printf("listening on %s\n", addr)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&endpoint, "endpoint", defaultEndpoint, "OpenAI-compatible API base URL")
	cmd.Flags().StringVar(&model, "model", defaultModel, "Model name")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (default: GURNEY_API_KEY env)")

	return cmd
}
