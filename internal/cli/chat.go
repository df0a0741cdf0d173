package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sautihq/sauti/internal/assistant"
	"github.com/sautihq/sauti/internal/at"
	"github.com/sautihq/sauti/internal/config"
	"github.com/sautihq/sauti/internal/llm"
	"github.com/sautihq/sauti/internal/logging"
	"github.com/sautihq/sauti/internal/safety"
	"github.com/sautihq/sauti/internal/tools"
	"github.com/sautihq/sauti/internal/voice"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one message to the assistant and print the reply",
		Example: `  sauti chat "Send airtime to +254712345678 with an amount of 10 in currency KES"
  sauti chat "Make a voice call to +254712345678 and say 'Your order has shipped'"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			atClient := at.New(cfg.AT, log)
			initiator := voice.NewInitiator(chatSeeder(cfg, log), atClient, nil, log)

			registry := tools.NewRegistry()
			tools.RegisterCommsTools(registry, atClient, initiator, cfg.Voice.CallerID)
			dispatcher := tools.NewDispatcher(registry, nil, nil, log)

			model := llm.NewOllamaClient(cfg.LLM.Host, cfg.LLM.Model)
			checker := safety.NewChecker(cfg.Safety.Strict)
			runner := assistant.New(model, dispatcher, checker, cfg.Safety.Block, log)

			reply := runner.Process(cmd.Context(), strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return nil
		},
	}
}

// chatSeeder picks how a one-shot command makes voice sessions visible to
// the callback handler. The handler lives in the serve process, so the
// session must reach its store over HTTP; without a configured gateway URL
// the call would only ever play the fallback greeting, and placing it
// would waste money.
func chatSeeder(cfg config.Config, log *logging.Logger) voice.Seeder {
	if cfg.Voice.CallbackURL != "" {
		return voice.NewRemoteSeeder(cfg.Voice.CallbackURL, log)
	}
	return voice.SeederFunc(func(context.Context, voice.Session) error {
		return fmt.Errorf("voice.callbackUrl is not set: a running gateway is needed to answer the provider's callback")
	})
}
