package adaptor

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

type ChatbotHandler struct {
	service usecase.ChatbotService
	log     *zap.Logger
}

func NewChatbotHandler(service usecase.ChatbotService, log *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		service: service,
		log:     log.With(zap.String("handler", "chatbot")),
	}
}

// Chat handles POST /api/chat (public)
func (h *ChatbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req request.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reply, err := h.service.Chat(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "chat")
		return
	}
	utils.ResponseSuccess(w, "success", reply)
}
