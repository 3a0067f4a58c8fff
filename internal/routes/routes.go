package routes

import (
	"net/http"

	"github.com/lumenlabs/studyportal/internal/app"
	"github.com/lumenlabs/studyportal/internal/handler"
	"github.com/lumenlabs/studyportal/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(a.DB)
	profile := handler.NewProfileHandler(a.ProfileRepo, a.Manager)
	feedback := handler.NewFeedbackHandler(a.FeedbackService)
	upload := handler.NewUploadHandler(a.UploadService)
	message := handler.NewMessageHandler(a.Relay, a.Manager)
	admin := handler.NewAdminHandler(a.AdminService)

	rateLimiter := middleware.RateLimitAPI()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)

	// Profile
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profile.Get))
	mux.HandleFunc("POST /api/profile", middleware.RequireAuth(profile.Save))

	// Weekly artifacts
	mux.HandleFunc("GET /api/feedback", middleware.RequireAuth(feedback.List))
	mux.HandleFunc("POST /api/feedback", middleware.RequireAuth(feedback.Create))
	mux.HandleFunc("GET /api/uploads", middleware.RequireAuth(upload.List))
	mux.HandleFunc("POST /api/uploads", middleware.RequireAuth(upload.Create))

	// Messaging
	mux.HandleFunc("GET /api/messages", middleware.RequireAuth(message.List))
	mux.HandleFunc("POST /api/messages", middleware.RequireAuth(message.Send))
	mux.HandleFunc("POST /api/messages/read", middleware.RequireAuth(message.MarkRead))
	mux.HandleFunc("GET /api/notifications", middleware.RequireAuth(message.Unread))

	// Admin console
	mux.HandleFunc("GET /api/admin/participants", middleware.RequireAdmin(admin.Participants))
	mux.HandleFunc("POST /api/admin/advance", middleware.RequireAdmin(admin.Advance))

	rateLimited := rateLimiter(mux.ServeHTTP)

	return middleware.Chain(http.HandlerFunc(rateLimited),
		middleware.RequestLogging,
		middleware.AuthMiddleware(a.Cfg.JWTSecret, a.UserRepo),
	)
}
