package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sautihq/sauti/internal/assistant"
	"github.com/sautihq/sauti/internal/at"
	"github.com/sautihq/sauti/internal/config"
	"github.com/sautihq/sauti/internal/gateway"
	"github.com/sautihq/sauti/internal/llm"
	"github.com/sautihq/sauti/internal/metrics"
	"github.com/sautihq/sauti/internal/safety"
	"github.com/sautihq/sauti/internal/store"
	"github.com/sautihq/sauti/internal/tools"
	"github.com/sautihq/sauti/internal/voice"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating data directories: %w", err)
			}

			db, err := store.Open(paths.DBPath(cfg.Store), log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			callLog := store.NewCallLog(db)

			m := metrics.New("sauti")

			sessions := voice.NewMemoryStore(cfg.Voice.SessionTTLDuration(), cfg.Voice.MaxSessions)
			atClient := at.New(cfg.AT, log)
			initiator := voice.NewInitiator(sessions, atClient, callLog, log)

			registry := tools.NewRegistry()
			tools.RegisterCommsTools(registry, atClient, initiator, cfg.Voice.CallerID)
			dispatcher := tools.NewDispatcher(registry, callLog, m, log)

			model := llm.NewOllamaClient(cfg.LLM.Host, cfg.LLM.Model)
			checker := safety.NewChecker(cfg.Safety.Strict)
			runner := assistant.New(model, dispatcher, checker, cfg.Safety.Block, log)

			srv := gateway.New(cfg, sessions, log,
				gateway.WithRunner(runner),
				gateway.WithCallLog(callLog),
				gateway.WithMetrics(m),
			)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
