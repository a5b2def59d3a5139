package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

const systemPrompt = `You are a food-ordering assistant. Use the provided tools to:
- Browse restaurants and menus.
- Manage the user's cart (the current cart_id is injected automatically).
- Place mock orders and track their status.
Never fabricate tool results; always call a tool for database-backed operations.
After each cart mutation, summarize the cart with itemized lines and subtotal. Keep responses concise.`

// maxToolRounds bounds how many tool-call rounds a single user turn may
// trigger before the model is forced to answer.
const maxToolRounds = 8

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model   string        `envconfig:"MODEL" split_words:"true" default:"openai/gpt-4o-mini"`
	APIURL  string        `envconfig:"FOOD_API" default:"http://127.0.0.1:8765/invoke"`
	CartID  string        `envconfig:"CART_ID"`
	Timeout time.Duration `split_words:"true" default:"60s"`
}

// Agent drives one conversational session: it forwards user text to the
// model, executes the tool calls the model requests against the backend,
// and persists the transcript through the conversation operations.
type Agent struct {
	llm            *openai.Client
	model          string
	api            *APIClient
	cartID         string
	conversationID int64
}

func New(cfg Config, cartID string) (*Agent, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("agent api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(cfg.APIKey))}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	client := openai.NewClient(opts...)

	return &Agent{
		llm:    &client,
		model:  cfg.Model,
		api:    NewAPIClient(cfg.APIURL, cfg.Timeout),
		cartID: cartID,
	}, nil
}

// Start ensures the session cart exists and opens a conversation bound
// to it.
func (a *Agent) Start() error {
	if _, err := a.api.Invoke("cart.ensure", map[string]any{"cart_id": a.cartID}); err != nil {
		return fmt.Errorf("ensure cart: %w", err)
	}

	raw, err := a.api.Invoke("conversation.create", map[string]any{"cart_id": a.cartID})
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	var created struct {
		ConversationID int64 `json:"conversation_id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil || created.ConversationID == 0 {
		return fmt.Errorf("unexpected conversation.create response: %s", string(raw))
	}
	a.conversationID = created.ConversationID
	return nil
}

// Turn handles one user message and returns the assistant's reply.
func (a *Agent) Turn(ctx context.Context, userText string) (string, error) {
	a.saveMessage("user", userText)

	messages, err := a.history()
	if err != nil {
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.model),
		Messages: messages,
		Tools:    toolDefinitions(),
	}

	for round := 0; round < maxToolRounds; round++ {
		completion, err := a.llm.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("model invoke failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", errors.New("model returned no choices")
		}

		msg := completion.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			reply := msg.Content
			a.saveMessage("assistant", reply)
			return reply, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())
		for _, call := range msg.ToolCalls {
			result := a.executeToolCall(call.Function.Name, call.Function.Arguments)
			params.Messages = append(params.Messages, openai.ToolMessage(result, call.ID))
		}
	}

	return "", errors.New("model exceeded tool call budget without answering")
}

// executeToolCall maps a model function call onto a dispatch operation,
// injecting the session cart_id where the operation is cart-scoped.
// Failures are reported back to the model in-band so it can recover.
func (a *Agent) executeToolCall(name, rawArgs string) string {
	op, ok := opForTool[name]
	if !ok {
		return fmt.Sprintf(`{"error":{"code":"UNKNOWN_TOOL","message":%q}}`, name)
	}

	args := decodeArguments(rawArgs)
	if cartScopedTools[name] {
		args["cart_id"] = a.cartID
	}

	log.Debug().Str("tool", op).Msg("agent executing tool")
	raw, err := a.api.Invoke(op, args)
	if err != nil {
		return fmt.Sprintf(`{"error":{"code":"HTTP_ERROR","message":%q}}`, err.Error())
	}
	return string(raw)
}

// history rebuilds the model message list from the stored transcript.
func (a *Agent) history() ([]openai.ChatCompletionMessageParamUnion, error) {
	raw, err := a.api.Invoke("conversation.load", map[string]any{"conversation_id": a.conversationID})
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	var loaded struct {
		Messages [][2]string `json:"messages"`
	}
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("unexpected conversation.load response: %s", string(raw))
	}

	messages := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)}
	for _, pair := range loaded.Messages {
		role, content := pair[0], pair[1]
		if role == "assistant" {
			messages = append(messages, openai.AssistantMessage(content))
		} else {
			messages = append(messages, openai.UserMessage(content))
		}
	}
	return messages, nil
}

// saveMessage appends to the transcript; a logging failure must not break
// the turn.
func (a *Agent) saveMessage(role, content string) {
	_, err := a.api.Invoke("conversation.save_message", map[string]any{
		"conversation_id": a.conversationID,
		"role":            role,
		"content":         content,
	})
	if err != nil {
		log.Warn().Err(err).Str("role", role).Msg("failed to save conversation message")
	}
}
