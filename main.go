package main

import (
	"context"

	"github.com/marulab/maruboard/config"
	"github.com/marulab/maruboard/models"
	"github.com/marulab/maruboard/routes"
	"github.com/marulab/maruboard/services"
	"github.com/marulab/maruboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Subject{}, &models.Post{}, &models.Comment{}, &models.Like{})

	if err := services.NewSubjectService(db).SeedDefaults(); err != nil {
		utils.Sugar.Fatalf("seed subjects: %v", err)
	}

	verifier, err := utils.NewVerifier(context.Background(), cfg)
	if err != nil {
		utils.Sugar.Fatalf("identity verifier: %v", err)
	}

	r := routes.SetupRouter(db, verifier)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
