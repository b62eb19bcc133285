package handlers

import (
	"nyayamitra-backend/repository"
	"nyayamitra-backend/session"

	"github.com/gin-gonic/gin"
)

// Routes collects the handlers mounted on the server.
type Routes struct {
	Citizen      *CitizenHandler
	Lawyer       *LawyerHandler
	Judge        *JudgeHandler
	Assist       *AssistHandler
	Court        *CourtHandler
	Analytics    *AnalyticsHandler
	Documents    *DocumentHandler
	Sessions     *session.Manager
	AdminKeyHash string
}

// Register mounts every route on r.
func (rt Routes) Register(r *gin.Engine) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Citizen
	r.GET("/user/case-lookup/:cnr", rt.Citizen.CaseLookup)

	// Lawyer workspace
	r.POST("/login", rt.Lawyer.Login)
	lawyer := r.Group("/lawyer")
	{
		lawyer.GET("/dashboard/:lawyerName", rt.Lawyer.Dashboard)
		lawyer.GET("/case-details/:cnr", rt.Lawyer.CaseDetails)
		lawyer.POST("/upsert-case/:lawyerName", rt.Lawyer.UpsertCase)
		lawyer.DELETE("/delete-case/:cnr", rt.Lawyer.DeleteCase)
		lawyer.POST("/update-note", rt.Lawyer.UpdateNote)
		lawyer.POST("/add-reminder", rt.Lawyer.AddReminder)
		lawyer.POST("/toggle-reminder", rt.Lawyer.ToggleReminder)
		lawyer.GET("/ai-brief/:cnr", rt.Lawyer.AIBrief)
		lawyer.GET("/stats-charts/:lawyerName", rt.Lawyer.StatsCharts)
		lawyer.GET("/my-appearance-dates", rt.Lawyer.AppearanceDates)
		lawyer.GET("/fetch-cause-list", rt.Lawyer.FetchCauseList)
		lawyer.POST("/legal-intelligence", rt.Lawyer.LegalIntelligence)
		lawyer.POST("/summarize-case", rt.Lawyer.SummarizeCase)
		lawyer.GET("/documents/:id", rt.Documents.GetDocument)
		lawyer.GET("/documents/:id/download", rt.Documents.DownloadDocument)
	}

	// Judge dashboard
	r.POST("/judges/login", rt.Judge.Login)
	r.GET("/judges/logout", rt.Judge.Logout)
	r.POST("/judges/smart-schedule", rt.Judge.SmartSchedule)
	judges := r.Group("/judges", RequireRole(rt.Sessions, session.RoleJudge))
	{
		judges.GET("", rt.Judge.Dashboard)
		judges.GET("/dashboard-counts", rt.Judge.DashboardCounts)
		judges.GET("/analytics-data", rt.Judge.DashboardCounts)
		judges.GET("/priority-data", rt.Judge.PriorityData)
		judges.GET("/analytics-live", rt.Judge.AnalyticsLive)
		judges.GET("/total-cases", rt.Judge.CaseList(repository.JudgeCasesAll))
		judges.GET("/pending-cases", rt.Judge.CaseList(repository.JudgeCasesPending))
		judges.GET("/disposed-cases", rt.Judge.CaseList(repository.JudgeCasesDisposed))
		judges.GET("/delayed-cases", rt.Judge.DelayedCases)
	}

	// AI
	r.POST("/ai/ask-nyaya", rt.Assist.AskNyaya)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/stats/home", rt.Citizen.HomeStats)
		api.POST("/save-note", rt.Court.SaveNote)
		api.GET("/get-notes", rt.Court.GetNotes)
		api.GET("/cause-list", rt.Court.CauseList)
		api.GET("/insights/:cnr", rt.Analytics.Insight)

		admin := api.Group("/admin", RequireAdminKey(rt.AdminKeyHash))
		admin.POST("/analytics/rebuild", rt.Analytics.Rebuild)
		admin.GET("/analytics/runs/:id", rt.Analytics.GetRun)
	}
}
