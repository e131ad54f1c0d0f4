package interview

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prepvoice/backend/internal/catalog"
	"github.com/prepvoice/backend/internal/session"
	"github.com/prepvoice/backend/pkg/response"
)

// StartRequest is the body for POST /api/start-interview.
type StartRequest struct {
	Role            string `json:"role"`
	Experience      string `json:"experience"`
	DurationMinutes int    `json:"duration_minutes"`
	CandidateName   string `json:"candidate_name"`
}

// SessionRequest is the common body carrying only a session id.
type SessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// RespondRequest is the body for POST /api/conversational-response.
type RespondRequest struct {
	SessionID   string `json:"session_id" binding:"required"`
	Answer      string `json:"answer"`
	QuestionNum int    `json:"question_num"`
}

// SaveRequest is the body for POST /api/save-answer.
type SaveRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
	Answer    string `json:"answer"`
}

// SpeakRequest is the body for POST /api/speak.
type SpeakRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

// Handler exposes the orchestrator over HTTP.
type Handler struct {
	svc     *Service
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewHandler creates an interview handler.
func NewHandler(svc *Service, cat *catalog.Catalog, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, catalog: cat, logger: logger}
}

// Register mounts the interview API on the router.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/roles", h.Roles)
	api.POST("/start-interview", h.Start)
	api.POST("/get-question", h.GetQuestion)
	api.POST("/record-answer", h.RecordAnswer)
	api.POST("/conversational-response", h.Respond)
	api.POST("/save-answer", h.SaveAnswer)
	api.POST("/speak", h.Speak)
	api.POST("/stop-speech", h.StopSpeech)
	api.POST("/complete-interview", h.Complete)
}

// Roles handles GET /api/roles (selectable roles and experience levels).
func (h *Handler) Roles(c *gin.Context) {
	response.OK(c, h.catalog)
}

// Start handles POST /api/start-interview.
func (h *Handler) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Role == "" {
		req.Role = "1"
	}
	if req.Experience == "" {
		req.Experience = "1"
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 5
	}

	res, err := h.svc.Start(c.Request.Context(), req.Role, req.Experience, req.DurationMinutes, req.CandidateName)
	if err != nil {
		h.logger.Error("start interview", zap.Error(err))
		response.Internal(c, "failed to start interview")
		return
	}
	response.OK(c, gin.H{
		"session_id":       res.SessionID,
		"role_name":        res.RoleName,
		"experience_name":  res.ExperienceName,
		"intro_text":       res.IntroText,
		"duration_minutes": res.DurationMinutes,
	})
}

// GetQuestion handles POST /api/get-question.
func (h *Handler) GetQuestion(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	q, err := h.svc.NextQuestion(c.Request.Context(), req.SessionID)
	if err != nil {
		h.fail(c, err, "failed to generate question")
		return
	}
	response.OK(c, gin.H{"question": q.Text, "question_number": q.Number})
}

// RecordAnswer handles POST /api/record-answer.
func (h *Handler) RecordAnswer(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	answer, err := h.svc.RecordAnswer(c.Request.Context(), req.SessionID)
	if err != nil {
		h.fail(c, err, "failed to record answer")
		return
	}
	response.OK(c, gin.H{"answer": answer})
}

// Respond handles POST /api/conversational-response.
func (h *Handler) Respond(c *gin.Context) {
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.QuestionNum <= 0 {
		req.QuestionNum = 1
	}

	eval, err := h.svc.Respond(c.Request.Context(), req.SessionID, req.Answer, req.QuestionNum)
	if err != nil {
		h.fail(c, err, "failed to generate response")
		return
	}
	response.OK(c, gin.H{"response": eval.Reply})
}

// SaveAnswer handles POST /api/save-answer.
func (h *Handler) SaveAnswer(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.svc.SaveTurn(c.Request.Context(), req.SessionID, req.Question, req.Answer); err != nil {
		h.fail(c, err, "failed to save answer")
		return
	}
	response.OK(c, gin.H{"saved": true})
}

// Speak handles POST /api/speak. Returns after the text has been spoken.
func (h *Handler) Speak(c *gin.Context) {
	var req SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.svc.Speak(c.Request.Context(), req.SessionID, req.Text); err != nil {
		h.fail(c, err, "failed to speak")
		return
	}
	response.OK(c, gin.H{"spoken": true})
}

// StopSpeech handles POST /api/stop-speech. Always succeeds.
func (h *Handler) StopSpeech(c *gin.Context) {
	var req SessionRequest
	_ = c.ShouldBindJSON(&req)
	h.svc.StopSpeech(req.SessionID)
	response.OK(c, gin.H{"stopped": true})
}

// Complete handles POST /api/complete-interview.
func (h *Handler) Complete(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	rep, err := h.svc.Complete(c.Request.Context(), req.SessionID)
	if err != nil {
		h.fail(c, err, "failed to complete interview")
		return
	}
	response.OK(c, gin.H{"report": rep})
}

// fail maps service errors onto the response envelope.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		response.NotFound(c, "Session not found")
	case errors.Is(err, ErrSessionClosed):
		response.NotFound(c, "Session is closed")
	case errors.Is(err, ErrNoOutstandingQuestion):
		response.Conflict(c, "No outstanding question to save")
	case errors.Is(err, ErrOracle):
		response.ServiceUnavailable(c, "AI service unavailable, please retry")
	default:
		h.logger.Error(fallback, zap.Error(err))
		response.Internal(c, fallback)
	}
}
