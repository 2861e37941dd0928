package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/model"
	"math"
	"strings"
	"time"

	"google.golang.org/genai"
)

// contentGenerator 抽出 genai 客户端的生成入口，便于测试替换
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiEvaluator 远端生成式引擎。纯粹的请求/响应转发：
// 出题和评分都委托给 Gemini，本身不含任何评分规则。
// 任何失败（网络、配额、脏输出）都由会话层回退到本地引擎。
type GeminiEvaluator struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

func NewGeminiEvaluator(ctx context.Context, cfg config.GeminiConfig) (*GeminiEvaluator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiEvaluator{models: client.Models, model: modelName, timeout: timeout}, nil
}

func (e *GeminiEvaluator) Name() string {
	return "gemini"
}

func (e *GeminiEvaluator) GenerateQuestions(ctx context.Context, profile model.UserProfile) ([]model.QuestionRecord, error) {
	prompt := buildQuestionPrompt(profile)

	output, err := e.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var items []struct {
		Text     string `json:"text"`
		Type     string `json:"type"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(extractJSON(output, '[', ']')), &items); err != nil {
		return nil, fmt.Errorf("parse question list: %w", err)
	}

	questions := make([]model.QuestionRecord, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		qType := model.QuestionBehavioral
		if strings.EqualFold(item.Type, string(model.QuestionTechnical)) {
			qType = model.QuestionTechnical
		}
		questions = append(questions, model.QuestionRecord{
			ID:       len(questions) + 1,
			Text:     text,
			Type:     qType,
			Category: strings.TrimSpace(item.Category),
		})
	}

	if len(questions) == 0 {
		return nil, errors.New("gemini returned no usable questions")
	}

	return questions, nil
}

func (e *GeminiEvaluator) EvaluateAnswer(ctx context.Context, question model.QuestionRecord, answerText string) (int, string, error) {
	prompt := buildEvaluationPrompt(question, answerText)

	output, err := e.generate(ctx, prompt)
	if err != nil {
		return 0, "", err
	}

	var result struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(extractJSON(output, '{', '}')), &result); err != nil {
		return 0, "", fmt.Errorf("parse evaluation: %w", err)
	}

	feedback := strings.TrimSpace(result.Feedback)
	if feedback == "" {
		return 0, "", errors.New("gemini returned empty feedback")
	}

	score := int(math.Round(result.Score))
	if score < MinScore {
		score = MinScore
	}
	if score > MaxScore {
		score = MaxScore
	}

	return score, feedback, nil
}

func (e *GeminiEvaluator) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func buildQuestionPrompt(profile model.UserProfile) string {
	var b strings.Builder

	b.WriteString("You are an experienced interviewer preparing a mock interview.\n\n")
	fmt.Fprintf(&b, "Candidate role: %s\n", profile.Role)
	fmt.Fprintf(&b, "Experience level: %s\n", profile.ExperienceLevel)
	if strings.TrimSpace(profile.Education) != "" {
		fmt.Fprintf(&b, "Education: %s\n", profile.Education)
	}
	b.WriteString("\nProduce 6 to 8 interview questions mixing technical and behavioral ones, technical first.\n")
	b.WriteString("Never address the candidate by name inside a question.\n\n")
	b.WriteString("Return ONLY a valid JSON array, no markdown, no extra text:\n")
	b.WriteString(`[{"text": "...", "type": "technical|behavioral", "category": "short label"}]`)

	return b.String()
}

func buildEvaluationPrompt(question model.QuestionRecord, answerText string) string {
	var b strings.Builder

	b.WriteString("You are an experienced interviewer scoring a candidate's answer in a mock interview.\n\n")
	fmt.Fprintf(&b, "Question (%s, %s): %s\n\n", question.Type, question.Category, question.Text)
	fmt.Fprintf(&b, "Answer: %s\n\n", answerText)
	b.WriteString("Score the answer from 1 (very poor) to 10 (excellent) and give 1-3 sentences of concrete feedback.\n")
	b.WriteString("Return ONLY valid JSON, no markdown, no extra text:\n")
	b.WriteString(`{"score": <1-10>, "feedback": "..."}`)

	return b.String()
}

// extractJSON 剥掉模型偶尔夹带的 markdown 围栏或前后缀文本，
// 截取最外层的 JSON 片段
func extractJSON(s string, opening, closing byte) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, opening)
	end := strings.LastIndexByte(s, closing)
	if start == -1 || end == -1 || start >= end {
		return s
	}
	return s[start : end+1]
}
