package controller

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
	UserService *service.UserService
}

func NewChatController(chatService *service.ChatService, userService *service.UserService) *ChatController {
	return &ChatController{ChatService: chatService, UserService: userService}
}

// workspaceFor resolves the chat workspace: explicit query/body value first,
// the user's active workspace otherwise.
func (c *ChatController) workspaceFor(ctx *gin.Context, requested model.Workspace) model.Workspace {
	if requested.Valid() {
		return requested
	}
	user := util.GetUserFromContext(ctx)
	if profile, err := c.UserService.GetProfile(user.UserID); err == nil {
		return profile.CurrentWorkspace
	}
	return model.WorkspaceProfessional
}

type sendMessageRequest struct {
	Content   string          `json:"content" binding:"required"`
	Workspace model.Workspace `json:"workspace"`
}

// Send godoc
// @Summary Send a companion message
// @Description One blocking companion turn; the reply is persisted into the workspace's history
// @Tags chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body sendMessageRequest true "Message"
// @Success 200 {object} util.Response{data=model.ChatMessage}
// @Router /api/chat/messages [post]
func (c *ChatController) Send(ctx *gin.Context) {
	var req sendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	reply, err := c.ChatService.Send(user.UserID, c.workspaceFor(ctx, req.Workspace), req.Content)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reply)
}

// Stream godoc
// @Summary Stream a companion reply
// @Description Server-sent events: message events carry content deltas, end closes the turn
// @Tags chat
// @Produce  text/event-stream
// @Security BearerAuth
// @Param   content query string true "Message"
// @Param   workspace query string false "Workspace" Enums(professional, personal)
// @Router /api/chat/stream [get]
func (c *ChatController) Stream(ctx *gin.Context) {
	content := ctx.Query("content")
	if content == "" {
		util.BadRequest(ctx, "content is required")
		return
	}
	workspace := c.workspaceFor(ctx, model.Workspace(ctx.Query("workspace")))

	user := util.GetUserFromContext(ctx)
	stream, errChan := c.ChatService.Stream(user.UserID, workspace, content)

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("Transfer-Encoding", "chunked")

	for delta := range stream {
		ctx.SSEvent("message", delta)
		ctx.Writer.Flush()
	}

	if err := <-errChan; err != nil {
		ctx.SSEvent("error", err.Error())
		ctx.Writer.Flush()
	}

	ctx.SSEvent("end", "done")
	ctx.Writer.Flush()
}

// History godoc
// @Summary Chat history
// @Tags chat
// @Produce  json
// @Security BearerAuth
// @Param   workspace query string false "Workspace" Enums(professional, personal)
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/chat/messages [get]
func (c *ChatController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	workspace := c.workspaceFor(ctx, model.Workspace(ctx.Query("workspace")))
	page, limit := util.Pagination(ctx)

	messages, total, err := c.ChatService.History(user.UserID, workspace, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: messages, Total: total, Page: page, Limit: limit})
}

// Clear godoc
// @Summary Clear chat history
// @Tags chat
// @Produce  json
// @Security BearerAuth
// @Param   workspace query string false "Workspace" Enums(professional, personal)
// @Success 200 {object} util.Response
// @Router /api/chat/messages [delete]
func (c *ChatController) Clear(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	workspace := c.workspaceFor(ctx, model.Workspace(ctx.Query("workspace")))

	if err := c.ChatService.Clear(user.UserID, workspace); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
