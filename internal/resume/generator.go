// Package resume generates tailored resumes with an LLM, gated on a minimum
// ATS score.
package resume

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
)

// MinATSScore is the generation gate: below this the request is rejected
// before any LLM call.
const MinATSScore = 95

const (
	generationTemperature = 0.3
	generationMaxTokens   = 3000
)

// ErrScoreTooLow is returned when the candidate's ATS score is below the gate.
var ErrScoreTooLow = fmt.Errorf("ats score below minimum of %d", MinATSScore)

// CandidateProfile is the subset of profile data the prompt needs.
type CandidateProfile struct {
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Location       string   `json:"location,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Experience     string   `json:"experience,omitempty"`
	Education      string   `json:"education,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
}

// Request carries everything one generation call needs.
type Request struct {
	CandidateID    string
	Profile        CandidateProfile
	JobTitle       string
	CompanyName    string
	JobID          string
	JobDescription string
	ATSScore       int
	ResumeFormat   string
}

// Result is the generated content plus the metadata persisted alongside it.
type Result struct {
	ResumeTitle   string
	ResumeContent string
	Metadata      map[string]any
}

// completionClient is the slice of the OpenAI client the generator uses.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Generator struct {
	client completionClient
	model  string
	logger logger.Logger
}

func NewGenerator(cfg *config.Config, log logger.Logger) *Generator {
	return &Generator{
		client: openai.NewClient(cfg.OpenAI.APIKey),
		model:  cfg.OpenAI.Model,
		logger: log,
	}
}

// NewGeneratorWithClient injects a completion client, used by tests.
func NewGeneratorWithClient(client completionClient, model string, log logger.Logger) *Generator {
	return &Generator{
		client: client,
		model:  model,
		logger: log,
	}
}

// Generate produces a tailored resume for the request. Requests below the
// ATS score gate are rejected without touching the LLM.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.ATSScore < MinATSScore {
		return nil, ErrScoreTooLow
	}

	format := req.ResumeFormat
	if format == "" {
		format = "markdown"
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(req.Profile, req.JobDescription, format),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate resume: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("generate resume: empty completion")
	}

	content := resp.Choices[0].Message.Content
	title := BuildTitle(req.Profile, req.JobTitle, req.CompanyName)

	g.logger.Info("Resume generated",
		logger.String("candidate_id", req.CandidateID),
		logger.String("job_id", req.JobID),
		logger.Int("ats_score", req.ATSScore),
		logger.Duration("generation_time", time.Since(start)),
	)

	return &Result{
		ResumeTitle:   title,
		ResumeContent: content,
		Metadata: map[string]any{
			"model":              g.model,
			"temperature":        generationTemperature,
			"max_tokens":         generationMaxTokens,
			"resume_format":      format,
			"ats_score":          req.ATSScore,
			"generation_time_ms": time.Since(start).Milliseconds(),
			"generated_at":       time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// ToModel converts a generation result into the persistent record.
func (r *Result) ToModel(req Request) *models.GeneratedResume {
	format := req.ResumeFormat
	if format == "" {
		format = "markdown"
	}
	return &models.GeneratedResume{
		CandidateID:        req.CandidateID,
		JobID:              req.JobID,
		ATSScore:           req.ATSScore,
		ResumeTitle:        r.ResumeTitle,
		ResumeContent:      r.ResumeContent,
		ResumeFormat:       format,
		GenerationMetadata: r.Metadata,
	}
}
