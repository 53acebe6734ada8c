package usecase

import (
	"context"
	"testing"

	"clinic-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"When are you open?", "hours"},
		{"How much does a facial cost?", "pricing"},
		{"What treatments do you offer?", "services"},
		{"Where is your nearest branch?", "location"},
		{"I want to book an appointment", "booking"},
		{"asdf qwerty", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectIntent(tt.message), "message %q", tt.message)
	}
}

func TestChat_HoursForBranch(t *testing.T) {
	e := newTestEnv(t)
	svc := NewChatbotService(e.repo, zap.NewNop())

	branchID := e.branch.ID.String()
	resp, err := svc.Chat(context.Background(), request.ChatRequest{
		Message:  "what are your opening hours",
		BranchID: &branchID,
	})
	require.NoError(t, err)
	assert.Equal(t, "hours", resp.Intent)
	assert.Contains(t, resp.Reply, e.branch.Name)
	assert.Contains(t, resp.Reply, "09:00-18:00")
}

func TestChat_HoursWithoutBranchAsksBack(t *testing.T) {
	e := newTestEnv(t)
	svc := NewChatbotService(e.repo, zap.NewNop())

	resp, err := svc.Chat(context.Background(), request.ChatRequest{Message: "when do you open"})
	require.NoError(t, err)
	assert.Equal(t, "hours", resp.Intent)
	assert.NotEmpty(t, resp.Suggestions)
}

func TestChat_PricingListsServices(t *testing.T) {
	e := newTestEnv(t)
	svc := NewChatbotService(e.repo, zap.NewNop())

	resp, err := svc.Chat(context.Background(), request.ChatRequest{Message: "how much is a facial"})
	require.NoError(t, err)
	assert.Equal(t, "pricing", resp.Intent)
	assert.Contains(t, resp.Reply, e.service.Name)
}

func TestChat_FallbackSuggests(t *testing.T) {
	e := newTestEnv(t)
	svc := NewChatbotService(e.repo, zap.NewNop())

	resp, err := svc.Chat(context.Background(), request.ChatRequest{Message: "zzz"})
	require.NoError(t, err)
	assert.Equal(t, "unknown", resp.Intent)
	assert.NotEmpty(t, resp.Suggestions)
}
