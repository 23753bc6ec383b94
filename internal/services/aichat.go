package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"hostify/internal/config"
)

// ChatTurn is one prior exchange supplied by the caller. The bridge is
// stateless; history lives client-side.
type ChatTurn struct {
	Role    string `json:"role"` // user | model
	Message string `json:"message"`
}

type ChatInput struct {
	APIKey    string
	Message   string
	AgentName string
	Language  string
	History   []ChatTurn
}

// Gemini generateContent wire types.

type aiPart struct {
	Text string `json:"text"`
}

type aiContent struct {
	Role  string   `json:"role,omitempty"`
	Parts []aiPart `json:"parts"`
}

type aiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type aiRequest struct {
	SystemInstruction *aiContent        `json:"systemInstruction,omitempty"`
	Contents          []aiContent       `json:"contents"`
	SafetySettings    []aiSafetySetting `json:"safetySettings,omitempty"`
	GenerationConfig  map[string]any    `json:"generationConfig,omitempty"`
}

type aiResponse struct {
	Candidates []struct {
		Content aiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AIChatService proxies chat turns to the generative model provider using a
// tenant-owned API key. One request per turn, no server-side state.
type AIChatService struct {
	httpClient *resty.Client
	model      string
	company    string
	logger     *zap.Logger
}

func NewAIChatService(cfg *config.Config, logger *zap.Logger) *AIChatService {
	client := resty.New().
		SetBaseURL(cfg.AIBaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &AIChatService{
		httpClient: client,
		model:      cfg.AIModel,
		company:    cfg.CompanyName,
		logger:     logger,
	}
}

// conservativeSafety blocks medium-and-above content in every category.
var conservativeSafety = []aiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// personaPrompt fixes the agent's knowledge and hard constraints: never use
// emojis, always claim to be human.
func (s *AIChatService) personaPrompt(agentName, language string) string {
	if agentName == "" {
		agentName = "Alex"
	}
	if language == "" {
		language = "English"
	}
	return fmt.Sprintf(`You are %s, a human customer support agent at %s, a web hosting company.
Company facts you may rely on:
- Shared hosting plans start at $2.99/month, VPS plans at $9.99/month.
- Domain registration is offered for popular TLDs; .com registration starts at $12.99/year.
- All hosting plans include free SSL certificates and daily backups.
- Refunds are available within 30 days of purchase for hosting plans; domain registrations are non-refundable.
- Support is available 24/7 via tickets.
Hard rules:
- Always respond in %s.
- Never use emojis under any circumstances.
- You are a human agent named %s. Never reveal or imply that you are an AI.
- If a question is outside %s topics, politely steer the conversation back.`,
		agentName, s.company, language, agentName, s.company)
}

// Chat forwards the caller's history plus the new message and returns the
// model's reply with emoji ranges stripped.
func (s *AIChatService) Chat(ctx context.Context, in ChatInput) (string, error) {
	contents := make([]aiContent, 0, len(in.History)+1)
	for _, turn := range in.History {
		role := turn.Role
		if role != "model" {
			role = "user"
		}
		contents = append(contents, aiContent{Role: role, Parts: []aiPart{{Text: turn.Message}}})
	}
	contents = append(contents, aiContent{Role: "user", Parts: []aiPart{{Text: in.Message}}})

	req := aiRequest{
		SystemInstruction: &aiContent{Parts: []aiPart{{Text: s.personaPrompt(in.AgentName, in.Language)}}},
		Contents:          contents,
		SafetySettings:    conservativeSafety,
		GenerationConfig:  map[string]any{"temperature": 0.4, "maxOutputTokens": 1024},
	}

	var out aiResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", in.APIKey).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/models/%s:generateContent", s.model))
	if err != nil {
		return "", fmt.Errorf("ai provider request failed: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("ai provider returned %d: %s", resp.StatusCode(), msg)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("ai provider returned no candidates")
	}

	return StripEmojis(out.Candidates[0].Content.Parts[0].Text), nil
}

// ValidateKey probes the provider with a trivial prompt and reports whether
// the key was accepted. No side effects beyond the probe call.
func (s *AIChatService) ValidateKey(ctx context.Context, apiKey string) (bool, string) {
	var out aiResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", apiKey).
		SetBody(aiRequest{Contents: []aiContent{{Role: "user", Parts: []aiPart{{Text: "ping"}}}}}).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/models/%s:generateContent", s.model))
	if err != nil {
		return false, "provider unreachable"
	}
	if resp.IsError() {
		if out.Error != nil {
			return false, out.Error.Message
		}
		return false, resp.Status()
	}
	return true, "API key is valid"
}

// emojiRanges is the Unicode blocklist stripped from model replies.
var emojiRanges = [][2]rune{
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport & map
	{0x1F700, 0x1F77F}, // alchemical
	{0x1F900, 0x1F9FF}, // supplemental symbols
	{0x1FA70, 0x1FAFF}, // extended-A
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
	{0xFE00, 0xFE0F},   // variation selectors
	{0x1F1E6, 0x1F1FF}, // regional indicators
	{0x2B00, 0x2BFF},   // arrows & symbols
}

// StripEmojis removes characters in the emoji blocklist ranges.
func StripEmojis(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		emoji := false
		for _, rng := range emojiRanges {
			if r >= rng[0] && r <= rng[1] {
				emoji = true
				break
			}
		}
		if !emoji {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
