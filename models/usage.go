package models

import (
	"github.com/rickchristie/agentexec"
	"github.com/tmc/langchaingo/llms"
)

// Usage extracts token counts from the first choice's GenerationInfo. Providers report the same
// counts under different keys; the first non-zero key wins.
func Usage(response *llms.ContentResponse) agentexec.TokenUsage {
	if response == nil || len(response.Choices) == 0 || response.Choices[0].GenerationInfo == nil {
		return agentexec.TokenUsage{}
	}
	info := response.Choices[0].GenerationInfo

	usage := agentexec.TokenUsage{
		// OpenAI / Ollama, Anthropic, Google / Bedrock
		InputTokens:  firstInt(info, "PromptTokens", "InputTokens", "input_tokens"),
		OutputTokens: firstInt(info, "CompletionTokens", "OutputTokens", "output_tokens"),
		// OpenAI, Anthropic, Google / Ollama
		CachedInputTokens: firstInt(info, "PromptCachedTokens", "CacheReadInputTokens", "CachedTokens"),
		ReasoningTokens:   firstInt(info, "ReasoningTokens", "CompletionReasoningTokens", "ThinkingTokens"),
	}
	usage.TotalTokens = firstInt(info, "TotalTokens", "total_tokens")
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return usage
}

func firstInt(m map[string]any, keys ...string) int {
	for _, key := range keys {
		if v := intValue(m[key]); v > 0 {
			return v
		}
	}
	return 0
}

// intValue handles the numeric types providers put in GenerationInfo.
func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}
