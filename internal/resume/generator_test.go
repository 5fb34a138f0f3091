package resume

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gojobs/internal/logger"
)

type mockCompletionClient struct {
	createFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	calls      int
	lastReq    openai.ChatCompletionRequest
}

func (m *mockCompletionClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.calls++
	m.lastReq = req
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "# Jane Doe\nGo developer resume"}},
		},
	}, nil
}

func sampleRequest() Request {
	return Request{
		CandidateID: "cand-1",
		Profile: CandidateProfile{
			FirstName: "Jane",
			LastName:  "Doe",
			Skills:    []string{"Go", "PostgreSQL"},
		},
		JobTitle:       "Senior Go Developer",
		CompanyName:    "Acme",
		JobID:          "job-1",
		JobDescription: "We are hiring a senior Go developer.",
		ATSScore:       96,
	}
}

func TestGenerate_Success(t *testing.T) {
	client := &mockCompletionClient{}
	gen := NewGeneratorWithClient(client, "gpt-4", logger.NewNop())

	result, err := gen.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe - Senior Go Developer at Acme", result.ResumeTitle)
	assert.Contains(t, result.ResumeContent, "Go developer resume")
	assert.Equal(t, "gpt-4", result.Metadata["model"])
	assert.Equal(t, 96, result.Metadata["ats_score"])

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "gpt-4", client.lastReq.Model)
	assert.InDelta(t, 0.3, float64(client.lastReq.Temperature), 0.001)
	assert.Equal(t, 3000, client.lastReq.MaxTokens)
	require.Len(t, client.lastReq.Messages, 2)
	assert.Contains(t, client.lastReq.Messages[1].Content, "We are hiring a senior Go developer.")
}

func TestGenerate_ScoreBelowGate(t *testing.T) {
	client := &mockCompletionClient{}
	gen := NewGeneratorWithClient(client, "gpt-4", logger.NewNop())

	req := sampleRequest()
	req.ATSScore = 94

	_, err := gen.Generate(context.Background(), req)
	require.ErrorIs(t, err, ErrScoreTooLow)
	assert.Zero(t, client.calls)
}

func TestGenerate_EmptyCompletion(t *testing.T) {
	client := &mockCompletionClient{
		createFunc: func(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, nil
		},
	}
	gen := NewGeneratorWithClient(client, "gpt-4", logger.NewNop())

	_, err := gen.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion")
}

func TestBuildTitle(t *testing.T) {
	tests := []struct {
		name    string
		profile CandidateProfile
		job     string
		company string
		want    string
	}{
		{
			name:    "full",
			profile: CandidateProfile{FirstName: "Jane", LastName: "Doe"},
			job:     "Go Developer",
			company: "Acme",
			want:    "Jane Doe - Go Developer at Acme",
		},
		{
			name:    "no company",
			profile: CandidateProfile{FirstName: "Jane", LastName: "Doe"},
			job:     "Go Developer",
			want:    "Jane Doe - Go Developer",
		},
		{
			name:    "no job",
			profile: CandidateProfile{FirstName: "Jane", LastName: "Doe"},
			want:    "Jane Doe",
		},
		{
			name: "empty profile",
			want: "Resume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildTitle(tt.profile, tt.job, tt.company))
		})
	}
}

func TestToModel(t *testing.T) {
	result := &Result{
		ResumeTitle:   "Jane Doe - Go Developer at Acme",
		ResumeContent: "content",
		Metadata:      map[string]any{"model": "gpt-4"},
	}

	record := result.ToModel(sampleRequest())
	assert.Equal(t, "cand-1", record.CandidateID)
	assert.Equal(t, "job-1", record.JobID)
	assert.Equal(t, 96, record.ATSScore)
	assert.Equal(t, "markdown", record.ResumeFormat)
	assert.Equal(t, "content", record.ResumeContent)
}
