package controller

import (
	"errors"
	"net/http"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary Register a new account
// @Description Creates an account, optionally joining an organization via an invitation token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "Registration details"
// @Success 201 {object} util.Response{data=service.AuthResponse}
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 409 {object} util.Response "Email already registered"
// @Failure 410 {object} util.Response "Invitation expired or used"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(ctx, http.StatusConflict, "email already registered")
		case errors.Is(err, util.ErrInvitationNotFound):
			util.BadRequest(ctx, "invalid invitation")
		case errors.Is(err, util.ErrInvitationExpired), errors.Is(err, util.ErrInvitationAccepted):
			util.Error(ctx, http.StatusGone, "invitation no longer valid")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, resp)
}

// Login godoc
// @Summary Log in
// @Description Checks credentials and issues a JWT
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "Credentials"
// @Success 200 {object} util.Response{data=service.AuthResponse}
// @Failure 401 {object} util.Response "Invalid credentials"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Login(req)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Error(ctx, http.StatusUnauthorized, "invalid email or password")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, resp)
}
