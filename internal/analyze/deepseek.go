// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"text/template"
	"time"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

// deepseekAPIURL is the DeepSeek chat-completions endpoint. Package-level
// var for test substitution.
var deepseekAPIURL = "https://api.deepseek.com/chat/completions"

// systemPrompt frames every analysis request.
const systemPrompt = `You are a helpful AI assistant that analyzes academic papers.
When analyzing papers:
1. For classification, provide one main field and 5-8 tags
2. For summary, structure the content clearly with sections
3. For translation, maintain academic tone while being clear
Always format your response according to the specified format in the prompt.`

// classificationPromptTmpl asks for the paper's main field and tags in a
// line-oriented format the parser can rely on.
var classificationPromptTmpl = template.Must(template.New("classification").Parse(`Classify the following academic paper.

Respond with exactly two lines:
Classification: [one main research field]
Tags: [5-8 comma-separated topic tags in English]

Title: {{.Title}}

Abstract:
{{.Abstract}}
`))

// summaryPromptTmpl asks for a sectioned Markdown summary.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Summarize the following academic paper for a daily research digest.

Structure the summary with short Markdown sections covering: the problem, the proposed approach, and the key results. Keep it under 300 words and do not repeat the title.

Title: {{.Title}}

Abstract:
{{.Abstract}}
`))

// translationPromptTmpl asks for a Korean translation of the abstract.
// Technical terms keep the English original alongside, emphasized with
// <strong> tags, matching the report's rendering.
var translationPromptTmpl = template.Must(template.New("translation").Parse(`다음 영문 초록을 한국어로 번역해주세요.

번역 규칙:
- 모든 전문 용어는 원문(영어)을 병기하고 <strong> 태그로 강조 표시합니다.
- 의미 단위로 개행해 가독성을 높입니다.
- '-입니다' 체계를 유지하며 자연스러운 전문성을 확보합니다.
- 모델명, 기술, 성능 지표는 <strong> 태그로 굵게 표시합니다.

영문 초록:
{{.Abstract}}

한국어 번역:`))

// backoffBase controls the base duration for exponential backoff between
// API attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// DeepSeekBackend implements Analyzer against the DeepSeek chat API. The
// chat model handles translation; the reasoner model handles
// classification and summarization.
type DeepSeekBackend struct {
	APIKey        string
	ChatModel     string
	ReasonerModel string
	MaxRetries    int
	Client        *http.Client
}

// NewDeepSeekBackend builds a backend from config.
func NewDeepSeekBackend(cfg types.AnalyzerConfig) (*DeepSeekBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("analyzer API key is not configured")
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "deepseek-chat"
	}
	reasonerModel := cfg.ReasonerModel
	if reasonerModel == "" {
		reasonerModel = "deepseek-reasoner"
	}

	return &DeepSeekBackend{
		APIKey:        cfg.APIKey,
		ChatModel:     chatModel,
		ReasonerModel: reasonerModel,
		MaxRetries:    cfg.MaxRetries,
		Client:        &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Analyze runs the three analysis calls for one paper: translation,
// classification, and summary.
func (b *DeepSeekBackend) Analyze(ctx context.Context, p types.PaperRecord) (types.AnalysisResult, error) {
	promptData := struct {
		Title    string
		Abstract string
	}{Title: p.Title, Abstract: p.Abstract}

	translation, err := b.completePrompt(ctx, b.ChatModel, translationPromptTmpl, promptData)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("translating abstract: %w", err)
	}

	classificationRaw, err := b.completePrompt(ctx, b.ReasonerModel, classificationPromptTmpl, promptData)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("classifying paper: %w", err)
	}
	classification, tags := parseClassification(classificationRaw)

	summaryRaw, err := b.completePrompt(ctx, b.ReasonerModel, summaryPromptTmpl, promptData)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("summarizing paper: %w", err)
	}

	return types.AnalysisResult{
		PaperID:          p.URL,
		Title:            p.Title,
		Classification:   classification,
		Tags:             tags,
		Summary:          cleanSummary(summaryRaw),
		Translation:      cleanTranslation(translation),
		OriginalAbstract: p.Abstract,
	}, nil
}

// completePrompt renders the template and calls the API with retry.
func (b *DeepSeekBackend) completePrompt(ctx context.Context, model string, tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return b.completeWithRetry(ctx, model, buf.String())
}

// completeWithRetry calls the API with exponential backoff between attempts.
func (b *DeepSeekBackend) completeWithRetry(ctx context.Context, model, prompt string) (string, error) {
	maxRetries := b.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := b.complete(ctx, model, prompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// DeepSeek chat-completions API structures.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// complete performs a single chat-completions call.
func (b *DeepSeekBackend) complete(ctx context.Context, model, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deepseekAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling DeepSeek API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("DeepSeek API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding DeepSeek response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("DeepSeek API returned no choices")
	}
	return cResp.Choices[0].Message.Content, nil
}
