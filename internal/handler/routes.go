package handler

import "github.com/gin-gonic/gin"

// Routes groups the bridge handlers mounted on one router.
type Routes struct {
	Metrics  *MetricsHandler
	State    *StateHandler
	Auth     *AuthHandler
	Schedule *ScheduleHandler
	Panel    *PanelHandler
	UI       *UIHandler
}

// NewRoutes builds every handler around one bridge.
func NewRoutes(b *Bridge, metrics metricsExporter, exporter scheduleExporter) *Routes {
	return &Routes{
		Metrics:  NewMetricsHandler(metrics, b.saga),
		State:    NewStateHandler(b),
		Auth:     NewAuthHandler(b),
		Schedule: NewScheduleHandler(b, exporter),
		Panel:    NewPanelHandler(b),
		UI:       NewUIHandler(b),
	}
}

// Mount registers the bridge endpoints on r.
func (rt *Routes) Mount(r gin.IRouter) {
	r.GET("/health", rt.Metrics.Health)
	r.GET("/metrics", rt.Metrics.Prometheus)

	r.GET("/state", rt.State.Get)
	r.GET("/state/stream", rt.State.Stream)

	auth := r.Group("/auth")
	auth.POST("/login", rt.Auth.Login)
	auth.POST("/register", rt.Auth.Register)
	auth.POST("/logout", rt.Auth.Logout)

	r.GET("/profile", rt.Auth.Profile)
	r.PATCH("/profile", rt.Auth.UpdateProfile)

	r.POST("/groups/fetch", rt.Schedule.FetchGroups)
	r.POST("/teachers/fetch", rt.Schedule.FetchTeachers)

	schedule := r.Group("/schedule")
	schedule.POST("/group/:id", rt.Schedule.GroupSchedule)
	schedule.POST("/teacher/:id", rt.Schedule.TeacherSchedule)
	schedule.GET("/grid", rt.Schedule.Grid)
	schedule.GET("/export", rt.Schedule.Export)
	schedule.DELETE("/export/:file", rt.Schedule.DeleteExport)
	schedule.POST("/edit", rt.Schedule.StartEdit)
	schedule.POST("/hidden/:id", rt.Schedule.HideSubject)
	schedule.DELETE("/hidden/:id", rt.Schedule.ShowSubject)
	schedule.POST("/save", rt.Schedule.Save)

	r.POST("/sessions/:groupId", rt.Schedule.ExamSessions)

	r.POST("/panel/:id", rt.Panel.Open)
	r.DELETE("/panel", rt.Panel.Close)
	r.POST("/comments", rt.Panel.AddComment)
	r.DELETE("/comments/:id", rt.Panel.DeleteComment)
	r.POST("/tags", rt.Panel.AddTag)
	r.DELETE("/tags/:id", rt.Panel.DeleteTag)
	r.POST("/links", rt.Panel.AddLink)
	r.PATCH("/links/:id", rt.Panel.UpdateLink)
	r.DELETE("/links/:id", rt.Panel.DeleteLink)

	ui := r.Group("/ui")
	ui.POST("/menu/:tab", rt.UI.SelectMenu)
	ui.POST("/theme", rt.UI.ToggleTheme)
}
