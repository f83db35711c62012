package enrichment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/workflow"
	"github.com/festy23/company_insights/pkg/anthropic"
	"github.com/festy23/company_insights/pkg/perplexity"
)

type mockAI struct {
	mock.Mock
}

func (m *mockAI) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

type mockSearch struct {
	mock.Mock
}

func (m *mockSearch) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*perplexity.ChatCompletionResponse), args.Error(1)
}

func textReply(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		StopReason: "end_turn",
		Content:    []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

func searchReply(text string) *perplexity.ChatCompletionResponse {
	return &perplexity.ChatCompletionResponse{
		Choices: []perplexity.Choice{{Message: perplexity.Message{Role: "assistant", Content: text}}},
	}
}

func promptContains(substr string) interface{} {
	return mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.Messages) == 1 && strings.Contains(req.Messages[0].Content, substr)
	})
}

func TestLLMEnricher_Enrich(t *testing.T) {
	ctx := context.Background()
	cfg := LLMConfig{Model: "claude-haiku-4-5-20251001"}

	t.Run("searches when no context is given", func(t *testing.T) {
		ai := new(mockAI)
		search := new(mockSearch)
		e := NewLLMEnricher(ai, search, cfg, zap.NewNop().Sugar())

		search.On("ChatCompletion", mock.Anything, mock.Anything).
			Return(searchReply("Acme makes anvils in Springfield."), nil)
		ai.On("CreateMessage", mock.Anything, promptContains("Acme makes anvils in Springfield.")).
			Return(textReply("```json\n{\"name\":\"Acme Corp\",\"website\":\"https://acme.example\",\"headquarters\":\"Springfield\"}\n```"), nil)

		data, err := e.Enrich(ctx, "Acme", "")

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", *data.Name)
		assert.Equal(t, "Springfield", *data.Headquarters)
		assert.Equal(t, "https://logo.clearbit.com/acme.example", *data.Logo)
		search.AssertExpectations(t)
		ai.AssertExpectations(t)
	})

	t.Run("uses supplied context without searching", func(t *testing.T) {
		ai := new(mockAI)
		search := new(mockSearch)
		e := NewLLMEnricher(ai, search, cfg, zap.NewNop().Sugar())

		ai.On("CreateMessage", mock.Anything, promptContains("Q3 report: ads 70%")).
			Return(textReply(`{"revenueBreakdown": {"Ads": 70}}`), nil)

		data, err := e.Enrich(ctx, "Acme", "Q3 report: ads 70%")

		require.NoError(t, err)
		assert.Equal(t, `{"Ads":70}`, data.RevenueBreakdown.String())
		search.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
	})

	t.Run("works without a search client", func(t *testing.T) {
		ai := new(mockAI)
		e := NewLLMEnricher(ai, nil, cfg, zap.NewNop().Sugar())
		ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textReply(`{"name":"Acme"}`), nil)

		data, err := e.Enrich(ctx, "Acme", "")

		require.NoError(t, err)
		assert.Equal(t, "Acme", *data.Name)
	})

	t.Run("search failure", func(t *testing.T) {
		ai := new(mockAI)
		search := new(mockSearch)
		e := NewLLMEnricher(ai, search, cfg, zap.NewNop().Sugar())
		search.On("ChatCompletion", mock.Anything, mock.Anything).Return(nil, errors.New("429"))

		data, err := e.Enrich(ctx, "Acme", "")

		assert.Nil(t, data)
		assert.ErrorIs(t, err, workflow.ErrEnrichment)
		ai.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	})

	t.Run("model failure", func(t *testing.T) {
		ai := new(mockAI)
		e := NewLLMEnricher(ai, nil, cfg, zap.NewNop().Sugar())
		ai.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded"))

		_, err := e.Enrich(ctx, "Acme", "ctx")

		assert.ErrorIs(t, err, workflow.ErrEnrichment)
	})

	t.Run("malformed reply", func(t *testing.T) {
		ai := new(mockAI)
		e := NewLLMEnricher(ai, nil, cfg, zap.NewNop().Sugar())
		ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textReply(`I could not find anything.`), nil)

		_, err := e.Enrich(ctx, "Acme", "ctx")

		assert.ErrorIs(t, err, workflow.ErrEnrichment)
	})
}
