package controller

import (
	"errors"
	"net/http"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type WorkflowController struct {
	WorkflowService *service.WorkflowService
}

func NewWorkflowController(workflowService *service.WorkflowService) *WorkflowController {
	return &WorkflowController{WorkflowService: workflowService}
}

type parseIntentRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ParseIntent godoc
// @Summary Parse a program request
// @Description Turns a free-text request into structured program fields
// @Tags workflow
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body parseIntentRequest true "Free-text request"
// @Success 200 {object} util.Response{data=service.Intent}
// @Failure 500 {object} util.Response "Model response unusable"
// @Router /api/workflow/intent [post]
func (c *WorkflowController) ParseIntent(ctx *gin.Context) {
	var req parseIntentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	intent, err := c.WorkflowService.ParseIntent(req.Prompt)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, intent)
}

// WizardQuestions godoc
// @Summary Refinement questions for an intent
// @Tags workflow
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.Intent true "Parsed intent"
// @Success 200 {object} util.Response{data=[]service.WizardQuestion}
// @Failure 500 {object} util.Response "Model response unusable"
// @Router /api/workflow/questions [post]
func (c *WorkflowController) WizardQuestions(ctx *gin.Context) {
	var intent service.Intent
	if err := ctx.ShouldBindJSON(&intent); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.WorkflowService.WizardQuestions(&intent)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// buildSeriesResponse is the generated program with its loops.
type buildSeriesResponse struct {
	Program *model.Program `json:"program"`
	Loops   []model.Loop   `json:"loops"`
}

// BuildSeries godoc
// @Summary Generate a program series
// @Description Runs the full pipeline: parses the request, composes one loop per series slot, and starts media enrichment in the background
// @Tags workflow
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.BuildSeriesRequest true "Request and wizard answers"
// @Success 201 {object} util.Response{data=buildSeriesResponse}
// @Failure 500 {object} util.Response "Model response unusable"
// @Router /api/workflow/series [post]
func (c *WorkflowController) BuildSeries(ctx *gin.Context) {
	var req service.BuildSeriesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	program, loops, err := c.WorkflowService.BuildSeries(user.UserID, req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Created(ctx, buildSeriesResponse{Program: program, Loops: loops})
}

func (c *WorkflowController) respondError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrAIMalformedResponse) {
		util.Error(ctx, http.StatusInternalServerError, util.ErrAIMalformedResponse.Error())
		return
	}
	util.LogInternalError(ctx, err)
}
