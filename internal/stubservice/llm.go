package stubservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yildizm/go-promptfmt"

	"github.com/yildizm/ResumeLens/internal/ai"
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
	"github.com/yildizm/ResumeLens/internal/logger"
)

const (
	extractionSystem = "You are a precise resume parser. Reply with a single JSON object and nothing else."
	analysisSystem   = "You are a professional career coach. Reply with a single JSON object and nothing else."

	// reserved for the instructions and the model's reply
	promptOverhead = 2048
)

// LLMAnalyzer extracts and assesses resumes with a language model. It runs
// two completions: one to pull structured data out of the text, and one to
// rate the extracted data.
type LLMAnalyzer struct {
	provider ai.Provider
	model    string
	logger   *slog.Logger
}

// NewLLMAnalyzer wraps p. An empty model uses the provider default.
func NewLLMAnalyzer(p ai.Provider, model string, l *slog.Logger) *LLMAnalyzer {
	return &LLMAnalyzer{provider: p, model: model, logger: logger.WithComponent(l, "llm")}
}

// Analyze implements Analyzer
func (a *LLMAnalyzer) Analyze(ctx context.Context, filename string, data []byte) (api.ExtractedData, api.Feedback, error) {
	text, err := document.PlainText(data)
	if err != nil {
		return api.ExtractedData{}, api.Feedback{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return a.analyzeText(ctx, filename, text)
}

func (a *LLMAnalyzer) analyzeText(ctx context.Context, filename, text string) (api.ExtractedData, api.Feedback, error) {
	if strings.TrimSpace(text) == "" {
		return api.ExtractedData{}, api.Feedback{}, errors.New("document has no text layer")
	}

	budget := a.provider.MaxTokens() - promptOverhead
	if budget > 0 && ai.EstimateTokens(text) > budget {
		var err error
		if text, err = a.provider.TruncateToFit(text, budget); err != nil {
			return api.ExtractedData{}, api.Feedback{}, err
		}
		a.logger.Debug("resume text truncated", slog.String("filename", filename), slog.Int("budget", budget))
	}

	var extracted api.ExtractedData
	if err := a.complete(ctx, "extract", extractionPrompt(text), &extracted); err != nil {
		return api.ExtractedData{}, api.Feedback{}, err
	}

	var feedback api.Feedback
	if err := a.complete(ctx, "assess", analysisPrompt(extracted), &feedback); err != nil {
		return api.ExtractedData{}, api.Feedback{}, err
	}
	if feedback.Rating != nil {
		r := min(max(*feedback.Rating, 0), 10)
		feedback.Rating = &r
	}
	return extracted, feedback, nil
}

func (a *LLMAnalyzer) complete(ctx context.Context, step string, prompt *promptfmt.Prompt, out any) error {
	start := time.Now()
	resp, err := a.provider.Complete(ctx, &ai.CompletionRequest{
		Prompt:       prompt.String(),
		SystemPrompt: prompt.SystemPrompt,
		Model:        a.model,
		Temperature:  0.2,
		JSON:         true,
	})
	if err != nil {
		a.logger.Warn("completion failed", slog.String("step", step), logger.Error(err))
		return err
	}
	a.logger.Debug("completion done",
		slog.String("step", step),
		slog.String("model", resp.Model),
		logger.Duration(time.Since(start)))

	result := promptfmt.NewResponse(resp.Content).TryParseJSON(out)
	if !result.Success {
		return fmt.Errorf("invalid JSON in %s response", step)
	}
	return nil
}

func extractionPrompt(text string) *promptfmt.Prompt {
	return promptfmt.New().
		System(extractionSystem).
		User("Extract the following fields from the resume below: name, email, phone, "+
			"core_skills (a list of skills), education (a list of {degree, institution, years}) and "+
			"work_experience (a list of {title, company, years, description}). "+
			"Use an empty string or empty list for anything the resume does not state.\n\nResume:\n%s", text).
		ExpectJSON(&api.ExtractedData{}).
		Build()
}

func analysisPrompt(extracted api.ExtractedData) *promptfmt.Prompt {
	data, _ := json.MarshalIndent(extracted, "", "  ")
	return promptfmt.New().
		System(analysisSystem).
		User("Review the candidate below. Give resume_rating as a number from 1 to 10, "+
			"improvement_areas as one paragraph of concrete advice, and upskill_suggestions "+
			"as 3 to 5 entries of {skill, explanation}.").
		AddContext("candidate", string(data)).
		ExpectJSON(&api.Feedback{}).
		Build()
}
