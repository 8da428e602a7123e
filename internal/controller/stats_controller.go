package controller

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService       *service.StatsService
	AchievementService *service.AchievementService
}

func NewStatsController(statsService *service.StatsService, achievementService *service.AchievementService) *StatsController {
	return &StatsController{StatsService: statsService, AchievementService: achievementService}
}

// GetStats godoc
// @Summary Progress dashboard
// @Description Points, level, streak, completion counts and the leaderboard
// @Tags stats
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserStats}
// @Router /api/stats [get]
func (c *StatsController) GetStats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	stats, err := c.StatsService.GetUserStats(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Leaderboard godoc
// @Summary Top users by points
// @Tags stats
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.LeaderboardRow}
// @Router /api/stats/leaderboard [get]
func (c *StatsController) Leaderboard(ctx *gin.Context) {
	rows, err := c.StatsService.Leaderboard(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// Achievements godoc
// @Summary Achievement catalog with unlock state
// @Tags stats
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.AchievementStatus}
// @Router /api/achievements [get]
func (c *StatsController) Achievements(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	statuses, err := c.AchievementService.ListForUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, statuses)
}
