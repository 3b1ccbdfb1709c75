package app

import (
	"coursehub_backend/docs"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c, cfg)

	// 2. 管理员课程接口，服务层会再次校验角色
	a.registerAdminRoutes(api, c, cfg)

	// 3. AI 接口
	a.registerTutorRoutes(api, c, cfg)
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers, cfg *config.Config) {
	api.GET("/health", c.health.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
		auth.GET("/profile", middleware.AuthMiddleware(cfg), c.auth.GetProfile)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", c.course.GetCourses)
		courses.GET("/search", c.course.SearchCourses)
		courses.GET("/search/:term", c.course.SearchCourses)
		courses.GET("/:id", c.course.GetCourse)
	}
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers, cfg *config.Config) {
	admin := api.Group("/courses")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("", c.course.CreateCourse)
		admin.POST("/bulk-delete", c.course.BulkDeleteCourses)
		admin.POST("/thumbnail", c.course.UploadThumbnail)
		admin.PUT("/:id", c.course.UpdateCourse)
		admin.DELETE("/:id", c.course.DeleteCourse)
	}
}

func (a *App) registerTutorRoutes(api *gin.RouterGroup, c *controllers, cfg *config.Config) {
	tutor := api.Group("")
	if cfg.AI.RequireAuth {
		tutor.Use(middleware.AuthMiddleware(cfg))
	} else {
		tutor.Use(middleware.TryAuthMiddleware(cfg))
	}
	tutor.Use(a.aiRateLimit(cfg))
	{
		tutor.POST("/explain", c.tutor.Explain)
		tutor.POST("/generate-quiz", c.tutor.GenerateQuiz)
	}
}
