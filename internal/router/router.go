package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fastygo/tasks/api/handler"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// New registers the task routes. Trailing slashes are part of the paths.
func New(handlers Handlers) *router.Router {
	r := router.New()

	if handlers.Health != nil {
		r.GET("/health", handlers.Health.Check)
	}

	r.GET("/tasks/", handlers.Task.ListTasks)
	r.POST("/tasks/", handlers.Task.CreateTask)
	r.GET("/tasks/{id}/", handlers.Task.GetTask)
	r.PUT("/tasks/{id}/", handlers.Task.UpdateTask)
	r.DELETE("/tasks/{id}/", handlers.Task.DeleteTask)

	return r
}

