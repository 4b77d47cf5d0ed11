package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/smartbill/smartbill-api/internal/application/service"
	"github.com/smartbill/smartbill-api/internal/presentation/http/dto/request"
	"github.com/smartbill/smartbill-api/internal/presentation/http/dto/response"
)

// AssistantHandler handles assistant HTTP requests
type AssistantHandler struct {
	assistantService *service.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// Chat handles a plain-language question about the business
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req request.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	answer, err := h.assistantService.Chat(c.Request.Context(), req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Assistant reply", gin.H{"reply": answer})
}

// Tip handles fetching a business tip
func (h *AssistantHandler) Tip(c *gin.Context) {
	response.OK(c, "Business tip", gin.H{"tip": h.assistantService.GetTip()})
}

// Predict handles the next-month revenue forecast
func (h *AssistantHandler) Predict(c *gin.Context) {
	prediction, err := h.assistantService.Predict(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Revenue forecast", prediction)
}
