package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskforge/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authGate func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)

	// Task routes require an authenticated identity
	r.GET("/api/v1/tasks", authGate(handlers.Task.ListTasks))
	r.POST("/api/v1/tasks", authGate(handlers.Task.CreateTask))
	r.PUT("/api/v1/tasks/{id}", authGate(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authGate(handlers.Task.DeleteTask))

	return r
}
