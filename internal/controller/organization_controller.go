package controller

import (
	"errors"
	"net/http"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type OrganizationController struct {
	OrgService        *service.OrganizationService
	InvitationService *service.InvitationService
}

func NewOrganizationController(orgService *service.OrganizationService, invitationService *service.InvitationService) *OrganizationController {
	return &OrganizationController{OrgService: orgService, InvitationService: invitationService}
}

func (c *OrganizationController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvitationNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvitationExpired), errors.Is(err, util.ErrInvitationAccepted):
		util.Error(ctx, http.StatusGone, "invitation no longer valid")
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary Create an organization
// @Description Creates an organization and makes the caller its admin
// @Tags organizations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateOrganizationRequest true "Organization"
// @Success 201 {object} util.Response{data=model.Organization}
// @Failure 403 {object} util.Response "Already in an organization"
// @Router /api/organizations [post]
func (c *OrganizationController) Create(ctx *gin.Context) {
	var req service.CreateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	org, err := c.OrgService.Create(user.UserID, req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Created(ctx, org)
}

// Get godoc
// @Summary Fetch the caller's organization
// @Tags organizations
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Organization ID"
// @Success 200 {object} util.Response{data=model.Organization}
// @Router /api/organizations/{id} [get]
func (c *OrganizationController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	org, err := c.OrgService.Get(user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, org)
}

// Members godoc
// @Summary List organization members
// @Tags organizations
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Organization ID"
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/organizations/{id}/members [get]
func (c *OrganizationController) Members(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	page, limit := util.Pagination(ctx)

	members, total, err := c.OrgService.Members(user.UserID, util.MustParseUint(ctx.Param("id")), page, limit)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: members, Total: total, Page: page, Limit: limit})
}

type memberRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

// SetMemberRole godoc
// @Summary Change a member's role
// @Tags organizations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Organization ID"
// @Param   memberId path int true "Member's user ID"
// @Param   body body memberRoleRequest true "New role"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/organizations/{id}/members/{memberId}/role [put]
func (c *OrganizationController) SetMemberRole(ctx *gin.Context) {
	var req memberRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	member, err := c.OrgService.SetMemberRole(user.UserID,
		util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Param("memberId")), req.Role)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, member)
}

type memberDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetMemberDisabled godoc
// @Summary Disable or re-enable a member
// @Tags organizations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Organization ID"
// @Param   memberId path int true "Member's user ID"
// @Param   body body memberDisabledRequest true "Disabled flag"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/organizations/{id}/members/{memberId}/disabled [put]
func (c *OrganizationController) SetMemberDisabled(ctx *gin.Context) {
	var req memberDisabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	member, err := c.OrgService.SetMemberDisabled(user.UserID,
		util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Param("memberId")), *req.Disabled)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, member)
}

// Teams godoc
// @Summary List teams
// @Tags organizations
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Organization ID"
// @Success 200 {object} util.Response{data=[]model.Team}
// @Router /api/organizations/{id}/teams [get]
func (c *OrganizationController) Teams(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	teams, err := c.OrgService.Teams(user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, teams)
}

// CreateTeam godoc
// @Summary Create a team
// @Tags organizations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Organization ID"
// @Param   body body service.CreateTeamRequest true "Team"
// @Success 201 {object} util.Response{data=model.Team}
// @Router /api/organizations/{id}/teams [post]
func (c *OrganizationController) CreateTeam(ctx *gin.Context) {
	var req service.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	team, err := c.OrgService.CreateTeam(user.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Created(ctx, team)
}

type assignTeamRequest struct {
	TeamID *uint `json:"teamId"`
}

// AssignTeam godoc
// @Summary Move a member into a team
// @Description A null teamId removes the member from any team
// @Tags organizations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Organization ID"
// @Param   memberId path int true "Member's user ID"
// @Param   body body assignTeamRequest true "Target team"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/organizations/{id}/members/{memberId}/team [put]
func (c *OrganizationController) AssignTeam(ctx *gin.Context) {
	var req assignTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	member, err := c.OrgService.AssignTeam(user.UserID,
		util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Param("memberId")), req.TeamID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, member)
}

// Engagement godoc
// @Summary Engagement rollup
// @Description Member count, sessions completed in the last 30 days, and total points earned
// @Tags organizations
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Organization ID"
// @Success 200 {object} util.Response{data=service.EngagementReport}
// @Router /api/organizations/{id}/engagement [get]
func (c *OrganizationController) Engagement(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	report, err := c.OrgService.Engagement(user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Invite godoc
// @Summary Invite someone into the organization
// @Tags organizations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.InviteRequest true "Invitation"
// @Success 201 {object} util.Response{data=model.Invitation}
// @Router /api/invitations [post]
func (c *OrganizationController) Invite(ctx *gin.Context) {
	var req service.InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	invitation, err := c.InvitationService.Invite(user.UserID, req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Created(ctx, invitation)
}

// Invitations godoc
// @Summary List the organization's invitations
// @Tags organizations
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Invitation}
// @Router /api/invitations [get]
func (c *OrganizationController) Invitations(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	invitations, err := c.InvitationService.ListForOrganization(user.UserID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, invitations)
}

// PreviewInvitation godoc
// @Summary Resolve an invitation token
// @Description For the signup page; does not consume the token
// @Tags organizations
// @Produce  json
// @Param   token path string true "Invitation token"
// @Success 200 {object} util.Response{data=model.Invitation}
// @Failure 410 {object} util.Response "Invitation expired or used"
// @Router /api/invitations/{token} [get]
func (c *OrganizationController) PreviewInvitation(ctx *gin.Context) {
	invitation, err := c.InvitationService.Preview(ctx.Param("token"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, invitation)
}

// AcceptInvitation godoc
// @Summary Accept an invitation
// @Description Joins the caller's existing account to the invitation's organization
// @Tags organizations
// @Produce  json
// @Security BearerAuth
// @Param   token path string true "Invitation token"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 410 {object} util.Response "Invitation expired or used"
// @Router /api/invitations/{token}/accept [post]
func (c *OrganizationController) AcceptInvitation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	updated, err := c.InvitationService.Accept(user.UserID, ctx.Param("token"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}
