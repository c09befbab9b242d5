package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/planner-api/internal/auth"
	"github.com/yukikurage/planner-api/internal/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Auth     *AuthHandler
	Tasks    *TaskHandler
	Notes    *NoteHandler
	Journals *JournalHandler
	Health   *HealthHandler
}

// RouterOptions configures the global middleware.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(h Handlers, tokens *auth.TokenManager, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	requireAuth := middleware.RequireAuth(tokens)

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.Auth.Register)
			authRoutes.POST("/login", h.Auth.Login)
			authRoutes.POST("/refresh", h.Auth.Refresh)
			authRoutes.GET("/me", requireAuth, h.Auth.GetCurrentUser)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", h.Tasks.ListTasks)
			tasks.POST("", h.Tasks.CreateTask)
			tasks.GET("/:id", h.Tasks.GetTask)
			tasks.PATCH("/:id", h.Tasks.UpdateTask)
			tasks.DELETE("/:id", h.Tasks.DeleteTask)
		}

		notes := api.Group("/notes")
		notes.Use(requireAuth)
		{
			notes.GET("", h.Notes.ListNotes)
			notes.POST("", h.Notes.CreateNote)
			notes.POST("/summarize", h.Notes.SummarizeNote)
			notes.GET("/:id", h.Notes.GetNote)
			notes.PATCH("/:id", h.Notes.UpdateNote)
			notes.DELETE("/:id", h.Notes.DeleteNote)
		}

		journals := api.Group("/journals")
		journals.Use(requireAuth)
		{
			journals.GET("", h.Journals.ListJournals)
			journals.POST("", h.Journals.CreateJournal)
			journals.GET("/:id", h.Journals.GetJournal)
			journals.PATCH("/:id", h.Journals.UpdateJournal)
			journals.DELETE("/:id", h.Journals.DeleteJournal)
		}
	}

	return r
}
