package app

import (
	"quizhub_backend/docs"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/middleware"
	"quizhub_backend/internal/model"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 学生侧：选卷、取卷（脱敏）、交卷、查成绩
		authGroup.GET("/quizzes", c.quiz.ListAll)
		authGroup.GET("/take-quiz/:quizId", c.takeQuiz.GetTakeQuiz)
		authGroup.POST("/quizzes/:quizId/submit", c.takeQuiz.Submit)
		authGroup.GET("/quizzes/:quizId/attempt", c.takeQuiz.GetOwnAttempt)

		// 教师侧：出卷与批改
		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.GET("/dashboard", c.dashboard.Overview)

			teacher.POST("/quizzes", c.quiz.Create)
			teacher.GET("/quizzes", c.quiz.ListOwned)
			teacher.GET("/quizzes/:quizId", c.quiz.Get)
			teacher.PUT("/quizzes/:quizId", c.quiz.Update)
			teacher.DELETE("/quizzes/:quizId", c.quiz.Delete)

			teacher.GET("/quizzes/:quizId/attempts", c.grade.ListAttempts)
			teacher.GET("/quizzes/:quizId/attempts/:studentId", c.grade.GetAttempt)
			teacher.PATCH("/quizzes/:quizId/attempts/:studentId/grade", c.grade.GradeEssay)
		}
	}
}
