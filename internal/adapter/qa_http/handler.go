package qa_http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"docqa-orchestrator/internal/usecase"
)

// AnswerRequest is the POST /v1/qa/answer payload.
type AnswerRequest struct {
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	FilterPages []int    `json:"filter_pages,omitempty"`
	SessionID   string   `json:"session_id,omitempty"`
	UseHistory  bool     `json:"use_history,omitempty"`
}

// ThinkingStep mirrors one pipeline progress entry.
type ThinkingStep struct {
	Label  string `json:"label"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// AnswerResponse is the POST /v1/qa/answer result.
type AnswerResponse struct {
	Answer        string         `json:"answer"`
	Explanation   string         `json:"explanation,omitempty"`
	Confidence    float64        `json:"confidence"`
	Evidence      string         `json:"evidence,omitempty"`
	Pages         []int          `json:"pages,omitempty"`
	SubQuestions  []string       `json:"sub_questions,omitempty"`
	Verified      bool           `json:"verified"`
	ThinkingSteps []ThinkingStep `json:"thinking_steps,omitempty"`
}

type Handler struct {
	answerUsecase usecase.AnswerQuestionUsecase
}

func NewHandler(answerUsecase usecase.AnswerQuestionUsecase) *Handler {
	return &Handler{answerUsecase: answerUsecase}
}

// Register wires the handler's routes onto the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/v1/qa/answer", h.Answer)
}

// Health reports liveness.
// (GET /health)
func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Answer runs the question-answering pipeline.
// (POST /v1/qa/answer)
func (h *Handler) Answer(ctx echo.Context) error {
	var req AnswerRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Question == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "question is required"})
	}

	output, err := h.answerUsecase.Execute(ctx.Request().Context(), usecase.AnswerQuestionInput{
		Question:    req.Question,
		Options:     req.Options,
		FilterPages: req.FilterPages,
		SessionID:   req.SessionID,
		UseHistory:  req.UseHistory,
	}, nil)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	resp := AnswerResponse{
		Answer:      output.Answer,
		Explanation: output.Explanation,
		Confidence:  output.Confidence,
		Evidence:    output.Evidence,
		Pages:       output.Pages,
		Verified:    output.Verified,
	}
	for _, sq := range output.SubQuestions {
		resp.SubQuestions = append(resp.SubQuestions, sq.Question)
	}
	for _, step := range output.ThinkingSteps {
		resp.ThinkingSteps = append(resp.ThinkingSteps, ThinkingStep{
			Label:  step.Label,
			Status: step.Status,
			Detail: step.Detail,
		})
	}
	return ctx.JSON(http.StatusOK, resp)
}
