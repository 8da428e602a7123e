package controller

import (
	"errors"
	"net/http"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

type startSessionRequest struct {
	LoopID string `json:"loopId" binding:"required"`
}

// startSessionResponse carries the new session plus, for all-zero-duration
// loops, the immediate completion summary.
type startSessionResponse struct {
	Session    *model.Session            `json:"session"`
	Completion *service.CompletionResult `json:"completion,omitempty"`
}

// Start godoc
// @Summary Start a session
// @Description Begins a Learn/Act/Earn session for a loop and starts the server-side countdown
// @Tags sessions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body startSessionRequest true "Loop to run"
// @Success 201 {object} util.Response{data=startSessionResponse}
// @Failure 404 {object} util.Response "Loop not found"
// @Router /api/sessions/start [post]
func (c *SessionController) Start(ctx *gin.Context) {
	var req startSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	session, completion, err := c.SessionService.Start(user.UserID, req.LoopID)
	if err != nil {
		if errors.Is(err, util.ErrLoopNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, startSessionResponse{Session: session, Completion: completion})
}

// Get godoc
// @Summary Fetch a session
// @Tags sessions
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Session ID"
// @Success 200 {object} util.Response{data=model.Session}
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/sessions/{id} [get]
func (c *SessionController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	session, err := c.SessionService.Get(user.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// List godoc
// @Summary List the user's sessions
// @Tags sessions
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	page, limit := util.Pagination(ctx)

	sessions, total, err := c.SessionService.List(user.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: sessions, Total: total, Page: page, Limit: limit})
}

// Patch godoc
// @Summary Partially update a session
// @Description Updates phase, remaining time or paused state; completion must go through the complete endpoint
// @Tags sessions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Session ID"
// @Param   body body service.PatchRequest true "Fields to update"
// @Success 200 {object} util.Response{data=model.Session}
// @Failure 400 {object} util.Response "Invalid phase"
// @Failure 404 {object} util.Response "Session not found"
// @Failure 409 {object} util.Response "Session already completed"
// @Router /api/sessions/{id} [patch]
func (c *SessionController) Patch(ctx *gin.Context) {
	var req service.PatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	session, err := c.SessionService.Patch(user.UserID, ctx.Param("id"), req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Pause godoc
// @Summary Pause the countdown
// @Tags sessions
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Session ID"
// @Success 200 {object} util.Response{data=model.Session}
// @Router /api/sessions/{id}/pause [post]
func (c *SessionController) Pause(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	session, err := c.SessionService.Pause(user.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Resume godoc
// @Summary Resume a paused countdown
// @Tags sessions
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Session ID"
// @Success 200 {object} util.Response{data=model.Session}
// @Router /api/sessions/{id}/resume [post]
func (c *SessionController) Resume(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	session, err := c.SessionService.Resume(user.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Skip godoc
// @Summary Skip the current phase
// @Description Forces the transition that would happen when the countdown reaches zero
// @Tags sessions
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Session ID"
// @Success 200 {object} util.Response{data=startSessionResponse}
// @Router /api/sessions/{id}/skip [post]
func (c *SessionController) Skip(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	session, completion, err := c.SessionService.Skip(user.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, startSessionResponse{Session: session, Completion: completion})
}

type completeSessionRequest struct {
	Reflection *service.ReflectionInput `json:"reflection,omitempty"`
}

// Complete godoc
// @Summary Complete a session
// @Description Finalizes the session, awards points, and optionally attaches a reflection
// @Tags sessions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Session ID"
// @Param   body body completeSessionRequest false "Optional reflection"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Failure 404 {object} util.Response "Session not found"
// @Failure 409 {object} util.Response "Session already completed"
// @Router /api/sessions/{id}/complete [post]
func (c *SessionController) Complete(ctx *gin.Context) {
	var req completeSessionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	user := util.GetUserFromContext(ctx)
	result, err := c.SessionService.Complete(user.UserID, ctx.Param("id"), req.Reflection)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type completeLegacyRequest struct {
	ProgramID uint            `json:"programId" binding:"required"`
	Workspace model.Workspace `json:"workspace"`
}

// CompleteLegacy godoc
// @Summary Record a completed session by program
// @Description Legacy path for clients that track the countdown themselves; records an immediately-completed session
// @Tags sessions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body completeLegacyRequest true "Program reference"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Failure 404 {object} util.Response "Program not found"
// @Router /api/sessions/complete [post]
func (c *SessionController) CompleteLegacy(ctx *gin.Context) {
	var req completeLegacyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	result, err := c.SessionService.CompleteLegacy(user.UserID, req.ProgramID, req.Workspace)
	if err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

func (c *SessionController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, util.ErrLoopNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrSessionCompleted):
		util.Error(ctx, http.StatusConflict, "session already completed")
	case errors.Is(err, util.ErrInvalidPhase):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
