package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"finsight/internal/errors"
	"finsight/internal/models"
)

// Narrator turns the per-ticker metrics digests into prose. It only ever
// sees the compact summaries, never raw price series: that boundary keeps
// the prompt small and prevents data leakage into the model call.
type Narrator struct {
	llm LLMClient
	log zerolog.Logger
}

// NewNarrator creates a narrator backed by the given LLM client.
func NewNarrator(llm LLMClient, logger zerolog.Logger) *Narrator {
	return &Narrator{
		llm: llm,
		log: logger.With().Str("agent", "narrator").Logger(),
	}
}

// Narrate produces the final answer text from the metrics summaries and the
// parsed window. A model failure here is fatal to the run.
func (n *Narrator) Narrate(ctx context.Context, question string, parsed models.Parsed, metrics map[string]models.Metrics) (string, error) {
	digests := make(map[string]map[string]any, len(metrics))
	for ticker, m := range metrics {
		digests[ticker] = m.Context()
	}

	payload, err := json.Marshal(map[string]any{
		"question": question,
		"parsed":   parsed,
		"metrics":  digests,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal narrator input")
	}

	prompt := fmt.Sprintf("%s\n\nJSON: %s", NarratorPrompt(), payload)
	answer, err := n.llm.CompleteWithSystem(ctx, SystemPrompt(), prompt)
	if err != nil {
		return "", errors.NewLLMUnavailable(errors.StageNarrator, err)
	}

	answer = strings.TrimSpace(answer)
	n.log.Debug().Int("chars", len(answer)).Msg("narrator responded")
	return answer, nil
}
