package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxgate/voxgate/internal/compose"
	"github.com/voxgate/voxgate/internal/config"
	"github.com/voxgate/voxgate/internal/dispatch"
	"github.com/voxgate/voxgate/internal/i18n"
	"github.com/voxgate/voxgate/internal/llmreply"
	"github.com/voxgate/voxgate/internal/message"
	"github.com/voxgate/voxgate/internal/platform"
	"github.com/voxgate/voxgate/internal/platform/slack"
	"github.com/voxgate/voxgate/internal/platform/webchat"
	"github.com/voxgate/voxgate/internal/server"
	"github.com/voxgate/voxgate/internal/track"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook gateway",
	Long:  `Loads the translation table and the configured platform adapters, then listens for webhooks on the configured port.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		table, err := i18n.Load(cfg.LocalesGlob)
		if err != nil {
			return fmt.Errorf("loading translations: %w", err)
		}
		resolver := i18n.NewResolver(table)

		var adapters []platform.Adapter
		if cfg.Slack.Enabled {
			adapters = append(adapters, slack.New(slack.Config{
				SigningSecret:   cfg.Slack.SigningSecret,
				DefaultLanguage: cfg.DefaultLanguage,
			}))
		}
		if cfg.Webchat.Enabled {
			adapters = append(adapters, webchat.New(webchat.Config{
				Token: cfg.Webchat.Token,
			}))
		}

		router, err := buildRouter(cfg)
		if err != nil {
			return err
		}

		var providers []track.Provider
		var console *track.Console
		if cfg.Trackers.Console {
			console = track.NewConsole()
			providers = append(providers, console)
		}
		if cfg.Trackers.JournalPath != "" {
			journal, err := track.OpenJournal(cfg.Trackers.JournalPath)
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer journal.Close()
			providers = append(providers, journal)
		}
		fanout := track.NewFanout(providers)

		d := dispatch.New(adapters, router, resolver, dispatch.WithTrackers(fanout))
		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
			Verbose:  verbose,
		}, d, console)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-stop:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		fanout.Wait()
		return nil
	},
}

// buildRouter assembles the intent routing strategy: the built-in launch
// handler plus either the LLM fallback or a translation-table fallback.
func buildRouter(cfg *config.Config) (*dispatch.Router, error) {
	handlers := []dispatch.IntentHandler{
		dispatch.ForIntent("LaunchRequest", func(_ context.Context, in *message.Input, res *i18n.Resolver) (*message.Output, error) {
			c := compose.New(in, res)
			c.AddReply(compose.FromKey("WELCOME"))
			c.SetExpectAnswer(true)
			return c.Output(), nil
		}),
	}

	var fallback dispatch.ReplyFunc
	if cfg.Fallback.Enabled {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("fallback enabled but OPENAI_API_KEY is not set")
		}
		fallback = llmreply.New(apiKey, cfg.Fallback.Model).Reply
	} else {
		fallback = func(_ context.Context, in *message.Input, res *i18n.Resolver) (*message.Output, error) {
			c := compose.New(in, res)
			c.AddReply(compose.FromKey("FALLBACK"))
			return c.Output(), nil
		}
	}

	return dispatch.NewRouter(handlers, fallback), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
