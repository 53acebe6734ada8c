package wire

import (
	"clinic-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireChatbot(r chi.Router, chatbotHandler *adaptor.ChatbotHandler) {
	// POST /api/chat - public FAQ assistant
	r.Post("/api/chat", chatbotHandler.Chat)
}
