// Package advisor talks to an OpenAI-compatible chat completions API to
// generate career advice.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

var (
	ErrRateLimited      = errors.New("advisor rate limit exceeded")
	ErrCreditsExhausted = errors.New("advisor credits exhausted")
)

// Config configures the client.
type Config struct {
	BaseURL string        // e.g. https://api.openai.com/v1
	APIKey  string        // bearer token
	Model   string        // chat model name
	Timeout time.Duration // per request
	Roles   []string      // roles offered by the catalog, named in the prompts
}

// Client generates barrier advice and path matches.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	roles      []string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("advisor api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("advisor model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		roles:      cfg.Roles,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With(zap.String("client", "advisor")),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// httpError is returned for unexpected non-2xx responses.
type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("advisor http %d: %s", e.StatusCode, e.Body)
}

// complete sends one chat request in JSON mode and returns the message content.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	req.ResponseFormat.Type = "json_object"

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("advisor request: %w", err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", fmt.Errorf("read advisor response: %w", readErr)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", ErrCreditsExhausted
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Error("advisor returned an error", zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return "", &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode advisor response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New("advisor returned no content")
	}
	return out.Choices[0].Message.Content, nil
}

// stringList accepts either a JSON array of strings or a single string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one != "" {
			*l = stringList{one}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

const barrierSystemPrompt = `You are an empathetic career advisor for people from underrepresented groups moving into tech.
Acknowledge real barriers honestly and pair each one with concrete, actionable strategies.

Reply with a JSON object:
{
  "barriers": ["barrier the person may face", "..."],
  "strategies": ["specific strategy with steps", "..."],
  "resources": ["community, organisation or resource", "..."],
  "encouragement": "a personal message of encouragement"
}`

type barrierReply struct {
	Barriers      stringList `json:"barriers"`
	Strategies    stringList `json:"strategies"`
	Resources     stringList `json:"resources"`
	Encouragement string     `json:"encouragement"`
}

// AnalyzeBarriers returns advice for a learner with the given background.
func (c *Client) AnalyzeBarriers(ctx context.Context, background string) (*entities.BarrierAdvice, error) {
	user := "Background: " + background + `

Describe the barriers this person is likely to meet entering tech, strategies to overcome them,
communities that can help, and close with encouragement.`

	content, err := c.complete(ctx, barrierSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	var reply barrierReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, fmt.Errorf("decode barrier advice: %w", err)
	}

	return &entities.BarrierAdvice{
		Background:    background,
		Barriers:      reply.Barriers,
		Strategies:    reply.Strategies,
		Resources:     reply.Resources,
		Encouragement: reply.Encouragement,
		Raw:           content,
	}, nil
}

type pathReply struct {
	TransferableSkills stringList `json:"transferableSkills"`
	SkillGaps          stringList `json:"skillGaps"`
	RecommendedPath    stringList `json:"recommendedPath"`
	MatchScore         int        `json:"matchScore"`
	Encouragement      string     `json:"encouragement"`
}

func (c *Client) pathSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a career adviser for people switching into tech. ")
	b.WriteString("Analyse how the user's background carries over to the target role. Be specific and encouraging.\n\n")
	if len(c.roles) > 0 {
		b.WriteString("The recommended path must point to courses in this app. Available roles: ")
		b.WriteString(strings.Join(c.roles, ", "))
		b.WriteString(". You may suggest meetups, networking or open source work, but no external learning providers.\n\n")
	}
	b.WriteString(`Reply with a JSON object:
{
  "transferableSkills": ["skill - why it carries over", "..."],
  "skillGaps": ["gap - why it matters", "..."],
  "recommendedPath": ["step", "..."],
  "matchScore": 0-100,
  "encouragement": "a personal message"
}`)
	return b.String()
}

// MatchPath compares the user's experience and skills with a target role.
func (c *Client) MatchPath(ctx context.Context, experience, skills, targetRole string) (*entities.PathMatch, error) {
	user := fmt.Sprintf("Current experience: %s\n\nCurrent skills: %s\n\nTarget role: %s", experience, skills, targetRole)

	content, err := c.complete(ctx, c.pathSystemPrompt(), user)
	if err != nil {
		return nil, err
	}

	var reply pathReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, fmt.Errorf("decode path match: %w", err)
	}

	return &entities.PathMatch{
		Experience:         experience,
		Skills:             skills,
		TargetRole:         targetRole,
		TransferableSkills: reply.TransferableSkills,
		SkillGaps:          reply.SkillGaps,
		RecommendedPath:    reply.RecommendedPath,
		MatchScore:         reply.MatchScore,
		Encouragement:      reply.Encouragement,
		Raw:                content,
	}, nil
}
