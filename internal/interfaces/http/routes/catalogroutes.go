package routes

import (
	"github.com/gin-gonic/gin"

	"kuppi/internal/interfaces/http/handlers"
	"kuppi/internal/interfaces/http/middleware"
)

// CatalogRouteConfig holds dependencies for catalog routes.
type CatalogRouteConfig struct {
	SubjectHandler    *handlers.SubjectHandler
	CourseCardHandler *handlers.CourseCardHandler
	VideoHandler      *handlers.VideoHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// SetupCatalogRoutes configures subject, course card, and video routes.
// Reads are open to any authenticated user; mutations are admin only.
func SetupCatalogRoutes(engine *gin.Engine, cfg *CatalogRouteConfig) {
	subjects := engine.Group("/subjects", cfg.AuthMiddleware.RequireAuth())
	{
		subjects.GET("", cfg.SubjectHandler.ListSubjects)

		admin := subjects.Group("", cfg.AuthMiddleware.RequireAdmin())
		{
			admin.POST("", cfg.SubjectHandler.CreateSubject)
			admin.PUT("/:id", cfg.SubjectHandler.UpdateSubject)
			admin.DELETE("/:id", cfg.SubjectHandler.DeleteSubject)
		}
	}

	cards := engine.Group("/course-cards", cfg.AuthMiddleware.RequireAuth())
	{
		cards.GET("", cfg.CourseCardHandler.ListCourseCards)
		cards.GET("/:id", cfg.CourseCardHandler.GetCourseCard)

		admin := cards.Group("", cfg.AuthMiddleware.RequireAdmin())
		{
			admin.POST("", cfg.CourseCardHandler.CreateCourseCard)
			admin.PUT("/:id", cfg.CourseCardHandler.UpdateCourseCard)
			admin.DELETE("/:id", cfg.CourseCardHandler.DeleteCourseCard)
		}
	}

	videos := engine.Group("/videos", cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
	{
		videos.POST("", cfg.VideoHandler.CreateVideo)
		videos.PUT("/:id", cfg.VideoHandler.UpdateVideo)
		videos.DELETE("/:id", cfg.VideoHandler.DeleteVideo)
	}
}
