package usecase

import (
	"context"
	"fmt"
	"strings"

	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatbotService interface {
	// Chat answers a free-text customer question using keyword intent matching
	// over the live catalog. Unrecognized messages get a fallback reply with
	// suggested questions.
	Chat(ctx context.Context, req request.ChatRequest) (*response.ChatResponse, error)
}

type chatbotService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewChatbotService(repo *repository.Repository, log *zap.Logger) ChatbotService {
	return &chatbotService{
		repo: repo,
		log:  log.With(zap.String("service", "chatbot")),
	}
}

var intentKeywords = map[string][]string{
	"hours":    {"hour", "open", "close", "when", "schedule"},
	"pricing":  {"price", "cost", "how much", "fee"},
	"services": {"service", "treatment", "facial", "massage", "offer"},
	"location": {"where", "location", "address", "branch"},
	"booking":  {"book", "appointment", "reserve", "slot"},
}

// detectIntent returns the first intent whose keywords appear in the message.
// Order matters: more specific intents are checked before generic ones.
var intentOrder = []string{"pricing", "hours", "location", "booking", "services"}

func detectIntent(message string) string {
	lower := strings.ToLower(message)
	for _, intent := range intentOrder {
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(lower, kw) {
				return intent
			}
		}
	}
	return "unknown"
}

var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (s *chatbotService) Chat(ctx context.Context, req request.ChatRequest) (*response.ChatResponse, error) {
	intent := detectIntent(req.Message)

	switch intent {
	case "hours":
		return s.answerHours(ctx, req.BranchID)
	case "pricing", "services":
		return s.answerServices(ctx, intent)
	case "location":
		return s.answerLocations(ctx)
	case "booking":
		return &response.ChatResponse{
			Reply:  "You can book online: pick a branch and service, then choose one of the free time slots. No account is needed, a phone number is enough.",
			Intent: intent,
		}, nil
	default:
		return &response.ChatResponse{
			Reply:  "Sorry, I did not catch that. I can help with opening hours, services, prices, locations and bookings.",
			Intent: intent,
			Suggestions: []string{
				"What are your opening hours?",
				"How much is a facial?",
				"Where are your branches?",
			},
		}, nil
	}
}

func (s *chatbotService) answerHours(ctx context.Context, branchID *string) (*response.ChatResponse, error) {
	if branchID == nil {
		return &response.ChatResponse{
			Reply:       "Opening hours differ per branch. Which branch are you asking about?",
			Intent:      "hours",
			Suggestions: []string{"Where are your branches?"},
		}, nil
	}

	id, err := uuid.Parse(*branchID)
	if err != nil {
		return nil, ErrBranchNotFound
	}
	branch, err := s.repo.Branch.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}
	hours, err := s.repo.Branch.FindHours(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(hours) == 0 {
		return &response.ChatResponse{
			Reply:  fmt.Sprintf("%s has no published opening hours yet.", branch.Name),
			Intent: "hours",
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is open:", branch.Name)
	for _, h := range hours {
		fmt.Fprintf(&b, " %s %s-%s.", weekdayNames[int(h.Weekday)%7], h.OpenTime, h.CloseTime)
	}
	return &response.ChatResponse{Reply: b.String(), Intent: "hours"}, nil
}

func (s *chatbotService) answerServices(ctx context.Context, intent string) (*response.ChatResponse, error) {
	services, err := s.repo.Service.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return &response.ChatResponse{
			Reply:  "We have no services listed right now. Please check back soon.",
			Intent: intent,
		}, nil
	}

	var b strings.Builder
	b.WriteString("Our services:")
	for _, svc := range services {
		fmt.Fprintf(&b, " %s (%d min, %.0f).", svc.Name, svc.DurationMinutes, svc.Price)
	}
	return &response.ChatResponse{Reply: b.String(), Intent: intent}, nil
}

func (s *chatbotService) answerLocations(ctx context.Context) (*response.ChatResponse, error) {
	branches, err := s.repo.Branch.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return &response.ChatResponse{
			Reply:  "We have no open branches listed right now.",
			Intent: "location",
		}, nil
	}

	var b strings.Builder
	b.WriteString("You can find us at:")
	for _, br := range branches {
		fmt.Fprintf(&b, " %s, %s (tel %s).", br.Name, br.Address, br.Phone)
	}
	return &response.ChatResponse{Reply: b.String(), Intent: "location"}, nil
}
