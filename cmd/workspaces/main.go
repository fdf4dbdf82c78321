package main

import (
	"deskly/internal/workspaces/handler"
	"deskly/internal/workspaces/repository"
	"deskly/internal/workspaces/service"
	"deskly/internal/workspaces/validator"
	"deskly/pkg/app"
	"deskly/pkg/config"
)

const ServiceName = "workspaces"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Workspaces service")
	workspaceService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewWorkspaceHandler(workspaceService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.WorkspaceService {
	workspaceService := service.NewWorkspaceService(
		repository.NewMongoWorkspaceRepository(cfg),
		validator.NewWorkspaceValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Workspace service initialized", "database", cfg.MongoDatabaseName)
	return workspaceService
}
