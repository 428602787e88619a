// Package llmevaluator adapts external LLM-backed capabilities to the
// engine.Evaluator contract. Neither file here is imported by
// internal/engine — the engine only knows the Evaluator function
// type, never these concrete backends (spec §6).
package llmevaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"soulengine/internal/domain"
	"soulengine/internal/engine"
	"soulengine/internal/llm"
)

// JudgeEvaluator asks an LLM client to directly judge, per belief,
// whether a scene challenges or reinforces it.
type JudgeEvaluator struct {
	client llm.Client
}

func NewJudgeEvaluator(client llm.Client) *JudgeEvaluator {
	return &JudgeEvaluator{client: client}
}

type judgeVerdict struct {
	Index  int    `json:"index"`
	Impact string `json:"impact"`
}

type judgeResponse struct {
	Verdicts      []judgeVerdict     `json:"verdicts"`
	EmotionDeltas map[string]float64 `json:"emotion_deltas"`
}

// Evaluate satisfies engine.Evaluator. A client error or an
// unparsable response degrades to "no impact" — the evaluator
// contract tolerates a silent judge rather than surfacing latency or
// transport errors into the engine (spec §6).
func (j *JudgeEvaluator) Evaluate(beliefs []domain.Belief, emotions domain.Vector, scene, conversation string) (engine.InteractionDelta, map[int]domain.Impact) {
	if j.client == nil || len(beliefs) == 0 {
		return nil, nil
	}
	raw, err := j.client.Generate(context.Background(), buildJudgePrompt(beliefs, emotions, scene, conversation))
	if err != nil {
		return nil, nil
	}
	body, ok := extractBalancedJSON(raw)
	if !ok {
		return nil, nil
	}
	var parsed judgeResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, nil
	}

	deltas := make(engine.InteractionDelta, len(parsed.EmotionDeltas))
	for name, v := range parsed.EmotionDeltas {
		e := domain.Emotion(name)
		if domain.IsValidEmotion(e) {
			deltas[e] = v
		}
	}
	impacts := make(map[int]domain.Impact, len(parsed.Verdicts))
	for _, v := range parsed.Verdicts {
		switch strings.ToLower(v.Impact) {
		case "challenged":
			impacts[v.Index] = domain.Challenged
		case "reinforced":
			impacts[v.Index] = domain.Reinforced
		}
	}
	return deltas, impacts
}

func buildJudgePrompt(beliefs []domain.Belief, _ domain.Vector, scene, conversation string) string {
	var sb strings.Builder
	sb.WriteString("You are judging whether a scene challenges or reinforces a character's beliefs.\n")
	fmt.Fprintf(&sb, "Scene: %s\nConversation: %s\n", scene, conversation)
	sb.WriteString("Beliefs:\n")
	for i, b := range beliefs {
		fmt.Fprintf(&sb, "%d: %q (strength %.2f)\n", i, b.Text, b.Strength)
	}
	sb.WriteString(`Respond with JSON only: {"verdicts":[{"index":0,"impact":"challenged"}],"emotion_deltas":{"fear":0.1}}`)
	return sb.String()
}

// extractBalancedJSON scans s for the first top-level {...} object,
// tracking brace depth and ignoring braces inside string literals, so
// prose the model wraps around its JSON answer doesn't break
// extraction.
func extractBalancedJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
