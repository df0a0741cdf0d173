// Package assistant turns free-form user text into dispatched operations.
// It screens the input, asks the model which tools to invoke, runs them
// through the dispatcher, and folds the results into a single reply string.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/sautihq/sauti/internal/llm"
	"github.com/sautihq/sauti/internal/logging"
	"github.com/sautihq/sauti/internal/redact"
	"github.com/sautihq/sauti/internal/safety"
	"github.com/sautihq/sauti/internal/tools"
)

// llmFailureReply is returned whenever the model cannot be reached. The
// transport error is logged, never surfaced to the user.
const llmFailureReply = "An unexpected error occurred while communicating with the assistant."

// Invocation is one tool call the model requested, with its outcome.
type Invocation struct {
	Name   string            `json:"name"`
	Args   map[string]string `json:"args"`
	Result string            `json:"result"`
}

// Reply is the assistant's answer to one user message.
type Reply struct {
	Text        string             `json:"text"`
	Safety      safety.CheckResult `json:"safety"`
	Invocations []Invocation       `json:"invocations,omitempty"`
}

// Runner orchestrates one message round: safety check, model call, tool
// dispatch.
type Runner struct {
	llm        llm.Client
	dispatcher *tools.Dispatcher
	checker    *safety.Checker
	block      bool
	log        *logging.Logger
}

// New creates a runner. When block is true, messages failing the safety
// check are refused instead of forwarded to the model.
func New(client llm.Client, dispatcher *tools.Dispatcher, checker *safety.Checker, block bool, log *logging.Logger) *Runner {
	return &Runner{
		llm:        client,
		dispatcher: dispatcher,
		checker:    checker,
		block:      block,
		log:        log.Sub("assistant"),
	}
}

// Process handles one user message and always returns a usable reply.
// Model transport failures and tool failures come back as reply text, not
// errors.
func (r *Runner) Process(ctx context.Context, input string) Reply {
	r.log.Info().Str("message", redact.PhoneNumbersIn(input)).Msg("processing user message")

	check := r.checker.Evaluate(input)
	if !check.Safe {
		r.log.Warn().
			Float64("score", check.Score).
			Int("violations", len(check.Flagged)).
			Msg("input failed safety evaluation")
		if r.block {
			return Reply{
				Text:   "I can't act on that request. " + check.Message,
				Safety: check,
			}
		}
	}

	messages := []llm.Message{{Role: llm.RoleUser, Content: input}}

	resp, err := r.llm.Chat(ctx, messages, r.dispatcher.Definitions())
	if err != nil {
		r.log.Error().Err(err).Str("provider", r.llm.Name()).Msg("model request failed")
		return Reply{Text: llmFailureReply, Safety: check}
	}

	if len(resp.Message.ToolCalls) == 0 {
		return Reply{Text: resp.Message.Content, Safety: check}
	}

	var (
		invocations []Invocation
		parts       []string
	)
	for _, call := range resp.Message.ToolCalls {
		result := r.dispatcher.Dispatch(ctx, call.Name, call.Arguments)
		invocations = append(invocations, Invocation{
			Name:   call.Name,
			Args:   redact.Args(call.Arguments),
			Result: result,
		})
		parts = append(parts, fmt.Sprintf("Function `%s` executed successfully. Response:\n%s", call.Name, result))
	}

	return Reply{
		Text:        strings.Join(parts, "\n\n"),
		Safety:      check,
		Invocations: invocations,
	}
}
