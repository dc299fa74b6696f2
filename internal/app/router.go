package app

import (
	"school_hub_backend/docs"
	"school_hub_backend/internal/config"
	"school_hub_backend/internal/middleware"
	"school_hub_backend/internal/model"
	"school_hub_backend/pkg/monitoring"

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

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerParentRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.GET("/courses", c.content.ListCourses)
	rg.GET("/courses/:courseId", c.content.GetCourse)
	rg.GET("/badges", c.badge.ListBadges)

	// 课时进度
	rg.POST("/lessons/:lessonId/start", c.progress.StartLesson)
	rg.POST("/lessons/:lessonId/complete", c.progress.CompleteLesson)
	rg.PATCH("/lessons/:lessonId/time", c.progress.UpdateTimeSpent)
	rg.GET("/lessons/:lessonId/progress", c.progress.GetLessonProgress)

	// 判分提交
	rg.POST("/exercises/:exerciseId/submissions", c.submission.SubmitExercise)
	rg.GET("/exercises/:exerciseId/submissions", c.submission.ListExerciseSubmissions)
	rg.POST("/quizzes/:quizId/submissions", c.submission.SubmitQuiz)
	rg.GET("/quizzes/:quizId/submissions", c.submission.ListQuizSubmissions)

	// 学生个人视图
	rg.GET("/students/me/progress", c.progress.GetMySummary)
	rg.GET("/students/me/courses/:courseId/progress", c.progress.GetCourseProgress)
	rg.GET("/students/me/achievements", c.achievement.GetMyAchievements)
	rg.GET("/achievements/leaderboard", c.achievement.GetLeaderboard)

	// 沙盒项目
	rg.POST("/sandbox/projects", c.sandbox.CreateProject)
	rg.GET("/sandbox/projects", c.sandbox.ListProjects)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// 班级
		teacher.POST("/classes", c.class.CreateClass)
		teacher.POST("/classes/:classId/courses", c.class.AssignCourse)
		teacher.POST("/classes/:classId/students", c.class.EnrollStudent)
		teacher.POST("/classes/:classId/attendance", c.class.RecordAttendance)
		teacher.GET("/classes/:classId/attendance", c.class.ListAttendance)
		teacher.GET("/classes/:classId/stats", c.class.GetClassStats)
		teacher.GET("/classes/:classId/courses", c.class.GetClassCourses)

		// 课程内容编排
		teacher.POST("/courses", c.content.CreateCourse)
		teacher.POST("/courses/:courseId/sections", c.content.CreateSection)
		teacher.POST("/sections/:sectionId/lessons", c.content.CreateLesson)
		teacher.POST("/courses/:courseId/exercises", c.content.CreateExercise)
		teacher.POST("/courses/:courseId/quizzes", c.content.CreateQuiz)
	}
}

func (a *App) registerParentRoutes(rg *gin.RouterGroup, c *controllers) {
	parent := rg.Group("/parents")
	parent.Use(middleware.RoleMiddleware(model.Parent))
	{
		parent.GET("/me/students", c.parent.ListMyStudents)
		parent.GET("/me/students/:studentId/progress", c.parent.GetStudentSummary)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		// 徽章目录管理
		admin.POST("/badges", c.badge.CreateBadge)
		admin.PUT("/badges/:badgeId", c.badge.UpdateBadge)

		// 家长-学生关联
		admin.POST("/parents/links", c.parent.LinkStudent)

		// 手动补发 XP
		admin.POST("/students/:studentId/xp", c.achievement.GrantXP)
	}
}
