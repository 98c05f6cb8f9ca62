package routes

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Sohammathur/Chat-Application--AI/internal/ai"
	aihttp "github.com/Sohammathur/Chat-Application--AI/internal/ai/http"
	httpapi "github.com/Sohammathur/Chat-Application--AI/internal/api/http"
	"github.com/Sohammathur/Chat-Application--AI/internal/api/http/middleware"
	"github.com/Sohammathur/Chat-Application--AI/internal/auth"
	authmw "github.com/Sohammathur/Chat-Application--AI/internal/auth/middleware"
	projectshttp "github.com/Sohammathur/Chat-Application--AI/internal/projects/http"
	"github.com/Sohammathur/Chat-Application--AI/internal/users"
	usershttp "github.com/Sohammathur/Chat-Application--AI/internal/users/http"
)

// UserDirectory is the user store as needed by authentication and the
// /users endpoints.
type UserDirectory interface {
	EnsureUser(ctx context.Context, id, email string) error
	Get(ctx context.Context, id string) (*users.User, error)
	ListExcept(ctx context.Context, id string) ([]users.User, error)
}

type Deps struct {
	Logger         *zap.Logger
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Health         map[string]httpapi.Pinger

	Verifier    auth.Verifier
	Revocations *auth.RevocationList
	Users       UserDirectory

	Projects projectshttp.Service
	Events   projectshttp.Subscriber
	AI       ai.Generator
}

// NewRouter wires every route. Health and metrics are public; everything
// else requires an authenticated user.
func NewRouter(dep Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(dep.Logger),
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     dep.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Health).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/", authmw.RequireUser(dep.Verifier, dep.Revocations, dep.Users))

	projectshttp.New(dep.Projects, dep.Events).Register(api.Group("/projects"))
	usershttp.New(dep.Users, dep.Revocations).Register(api.Group("/users"))
	aihttp.New(dep.AI).Register(api.Group("/ai"))

	return r
}
