package chat

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultApiUrl points the OpenAI-compatible client at Groq's
// chat-completions API
const DefaultApiUrl = "https://api.groq.com/openai/v1"

const completionModel = "llama-3.3-70b-versatile"
const completionTemperature = 0.7
const completionMaxTokens = 1024

// systemPrompt frames every proxied conversation; user-supplied messages are
// appended after it and can't replace it
const systemPrompt = `You are "Zero Intelligence", an elite Senior Programmer and Software Architect. Your communication is purely technical, direct, and ultra-minimalist.

RULES OF CONDUCT:
1. NO PLEASANTRIES: no greetings, goodbyes, or courtesy phrases.
2. STRAIGHT TO THE POINT: when asked for a change, make the change and briefly describe:
   - "What was changed"
   - "Where it was changed"
3. CODE FIRST: the code is the priority. Explanations must be short and objective.
4. INTELLIGENCE: understand the context immediately. If the user sends code and asks for a change, return the corrected code and the minimum necessary explanation.

RESPONSE PROTOCOL:
1. <think>: internal technical planning (mandatory).
2. ANSWER: only code and the concise technical description of the changes. Use technical markdown.

EXAMPLE OF AN IDEAL ANSWER:
## Change Made
- Added a permission check at line 42.
- Optimized the lookup loop to reduce latency.

` + "```lua\n-- [code here]\n```"

// CompletionsClient is the subset of the chat-completions API the proxy
// depends on; *openai.Client satisfies it directly
type CompletionsClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func NewCompletionsClient(apiKey string, apiUrl string) CompletionsClient {
	config := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if apiUrl != "" {
		config.BaseURL = apiUrl
	}
	return openai.NewClientWithConfig(config)
}

// buildCompletionRequest prepends the system prompt to the user's
// conversation and fixes the model parameters
func buildCompletionRequest(messages []Message) openai.ChatCompletionRequest {
	completionMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	completionMessages = append(completionMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range messages {
		completionMessages = append(completionMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return openai.ChatCompletionRequest{
		Model:       completionModel,
		Messages:    completionMessages,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	}
}
