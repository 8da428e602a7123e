package controller

import (
	"errors"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type ReflectionController struct {
	ReflectionService *service.ReflectionService
}

func NewReflectionController(reflectionService *service.ReflectionService) *ReflectionController {
	return &ReflectionController{ReflectionService: reflectionService}
}

// Create godoc
// @Summary Submit a reflection
// @Description Stores a reflection for one of the user's sessions and awards reflection points
// @Tags reflections
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateReflectionRequest true "Reflection"
// @Success 201 {object} util.Response{data=service.ReflectionResult}
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/reflections [post]
func (c *ReflectionController) Create(ctx *gin.Context) {
	var req service.CreateReflectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	result, err := c.ReflectionService.Create(user.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, result)
}

// List godoc
// @Summary List the user's reflections
// @Tags reflections
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/reflections [get]
func (c *ReflectionController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	page, limit := util.Pagination(ctx)

	reflections, total, err := c.ReflectionService.ListByUser(user.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: reflections, Total: total, Page: page, Limit: limit})
}

// ListBySession godoc
// @Summary Reflections for one session
// @Tags reflections
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Session ID"
// @Success 200 {object} util.Response{data=[]model.Reflection}
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/sessions/{id}/reflections [get]
func (c *ReflectionController) ListBySession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	reflections, err := c.ReflectionService.ListBySession(user.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, reflections)
}
