package controller

import (
	"errors"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgramController struct {
	ProgramService *service.ProgramService
}

func NewProgramController(programService *service.ProgramService) *ProgramController {
	return &ProgramController{ProgramService: programService}
}

// List godoc
// @Summary Browse programs
// @Description Lists programs in a workspace; defaults to the professional workspace
// @Tags programs
// @Produce  json
// @Security BearerAuth
// @Param   workspace query string false "Workspace" Enums(professional, personal)
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/programs [get]
func (c *ProgramController) List(ctx *gin.Context) {
	workspace := model.Workspace(ctx.DefaultQuery("workspace", string(model.WorkspaceProfessional)))
	page, limit := util.Pagination(ctx)

	programs, total, err := c.ProgramService.List(workspace, page, limit)
	if err != nil {
		if errors.Is(err, util.ErrInvalidWorkspace) {
			util.BadRequest(ctx, "unknown workspace")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, util.PageResponse{List: programs, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Fetch a program with its loops
// @Tags programs
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Program ID"
// @Success 200 {object} util.Response{data=service.ProgramDetail}
// @Failure 404 {object} util.Response "Program not found"
// @Router /api/programs/{id} [get]
func (c *ProgramController) Get(ctx *gin.Context) {
	detail, err := c.ProgramService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}

// Create godoc
// @Summary Create a program by hand
// @Tags programs
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateProgramRequest true "Program"
// @Success 201 {object} util.Response{data=model.Program}
// @Failure 400 {object} util.Response "Durations do not fill the session"
// @Router /api/programs [post]
func (c *ProgramController) Create(ctx *gin.Context) {
	var req service.CreateProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	program, err := c.ProgramService.Create(user.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidWorkspace):
			util.BadRequest(ctx, "unknown workspace")
		case errors.Is(err, util.ErrInvalidDurations):
			util.BadRequest(ctx, "phase durations must sum to the session length")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, program)
}

// AddLoop godoc
// @Summary Append a loop to a program
// @Tags programs
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Program ID"
// @Param   body body service.CreateLoopRequest true "Loop content"
// @Success 201 {object} util.Response{data=model.Loop}
// @Failure 404 {object} util.Response "Program not found"
// @Router /api/programs/{id}/loops [post]
func (c *ProgramController) AddLoop(ctx *gin.Context) {
	var req service.CreateLoopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	loop, err := c.ProgramService.AddLoop(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, loop)
}

// GetLoop godoc
// @Summary Fetch a loop
// @Tags programs
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Loop ID"
// @Success 200 {object} util.Response{data=model.Loop}
// @Failure 404 {object} util.Response "Loop not found"
// @Router /api/loops/{id} [get]
func (c *ProgramController) GetLoop(ctx *gin.Context) {
	loop, err := c.ProgramService.GetLoop(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrLoopNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, loop)
}

// Progress godoc
// @Summary The user's per-program completion markers
// @Tags programs
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Progress}
// @Router /api/programs/progress [get]
func (c *ProgramController) Progress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	progress, err := c.ProgramService.Progress(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// TopicVideos godoc
// @Summary Curated topic videos
// @Tags programs
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.TopicVideo}
// @Router /api/videos [get]
func (c *ProgramController) TopicVideos(ctx *gin.Context) {
	videos, err := c.ProgramService.TopicVideos()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, videos)
}
