package controller

import (
	"errors"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetProfile godoc
// @Summary Current user profile
// @Tags users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Profile}
// @Router /api/users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	profile, err := c.UserService.GetProfile(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// UpdateProfile godoc
// @Summary Update name or avatar
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/me [patch]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	updated, err := c.UserService.UpdateProfile(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

type switchWorkspaceRequest struct {
	Workspace model.Workspace `json:"workspace" binding:"required"`
}

// SwitchWorkspace godoc
// @Summary Switch the active workspace
// @Description Flips between the professional and personal contexts
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body switchWorkspaceRequest true "Target workspace"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "Unknown workspace"
// @Router /api/users/me/workspace [put]
func (c *UserController) SwitchWorkspace(ctx *gin.Context) {
	var req switchWorkspaceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	updated, err := c.UserService.SwitchWorkspace(user.UserID, req.Workspace)
	if err != nil {
		if errors.Is(err, util.ErrInvalidWorkspace) {
			util.BadRequest(ctx, "unknown workspace")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, updated)
}

// ChangePassword godoc
// @Summary Change password
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Old password does not match"
// @Router /api/users/me/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	var req service.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	if err := c.UserService.ChangePassword(user.UserID, req); err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
