package app

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/docs"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/middleware"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/invitations/:token", c.organization.PreviewInvitation)
	}

	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(), middleware.ActivityMiddleware(repos.user))
	{
		authorized.GET("/users/me", c.user.GetProfile)
		authorized.PATCH("/users/me", c.user.UpdateProfile)
		authorized.PUT("/users/me/workspace", c.user.SwitchWorkspace)
		authorized.PUT("/users/me/password", c.user.ChangePassword)

		authorized.POST("/sessions/start", c.session.Start)
		authorized.POST("/sessions/complete", c.session.CompleteLegacy)
		authorized.GET("/sessions", c.session.List)
		authorized.GET("/sessions/:id", c.session.Get)
		authorized.PATCH("/sessions/:id", c.session.Patch)
		authorized.POST("/sessions/:id/pause", c.session.Pause)
		authorized.POST("/sessions/:id/resume", c.session.Resume)
		authorized.POST("/sessions/:id/skip", c.session.Skip)
		authorized.POST("/sessions/:id/complete", c.session.Complete)
		authorized.GET("/sessions/:id/reflections", c.reflection.ListBySession)

		authorized.POST("/reflections", c.reflection.Create)
		authorized.GET("/reflections", c.reflection.List)

		authorized.GET("/programs", c.program.List)
		authorized.POST("/programs", c.program.Create)
		authorized.GET("/programs/progress", c.program.Progress)
		authorized.GET("/programs/:id", c.program.Get)
		authorized.POST("/programs/:id/loops", c.program.AddLoop)
		authorized.GET("/loops/:id", c.program.GetLoop)
		authorized.GET("/videos", c.program.TopicVideos)

		authorized.POST("/workflow/intent", c.workflow.ParseIntent)
		authorized.POST("/workflow/questions", c.workflow.WizardQuestions)
		authorized.POST("/workflow/series", c.workflow.BuildSeries)

		authorized.POST("/chat/messages", c.chat.Send)
		authorized.GET("/chat/messages", c.chat.History)
		authorized.DELETE("/chat/messages", c.chat.Clear)
		authorized.GET("/chat/stream", c.chat.Stream)

		authorized.GET("/stats", c.stats.GetStats)
		authorized.GET("/stats/leaderboard", c.stats.Leaderboard)
		authorized.GET("/achievements", c.stats.Achievements)

		authorized.POST("/organizations", c.organization.Create)
		authorized.GET("/organizations/:id", c.organization.Get)
		authorized.GET("/organizations/:id/engagement", c.organization.Engagement)
		authorized.GET("/organizations/:id/teams", c.organization.Teams)
		authorized.POST("/invitations/:token/accept", c.organization.AcceptInvitation)

		admin := authorized.Group("")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.GET("/organizations/:id/members", c.organization.Members)
			admin.PUT("/organizations/:id/members/:memberId/role", c.organization.SetMemberRole)
			admin.PUT("/organizations/:id/members/:memberId/disabled", c.organization.SetMemberDisabled)
			admin.PUT("/organizations/:id/members/:memberId/team", c.organization.AssignTeam)
			admin.POST("/organizations/:id/teams", c.organization.CreateTeam)
			admin.POST("/invitations", c.organization.Invite)
			admin.GET("/invitations", c.organization.Invitations)
		}
	}
}
