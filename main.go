package main

import (
	"time"

	"github.com/sammao/checkhub/attendance"
	"github.com/sammao/checkhub/config"
	"github.com/sammao/checkhub/models"
	"github.com/sammao/checkhub/routes"
	"github.com/sammao/checkhub/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// One-time idempotent schema setup at bootstrap
	db := config.InitDatabase(&models.User{}, &models.AttendanceRecord{}, &models.Operator{})

	svc := attendance.NewService(db)
	r := routes.SetupRouter(db, svc)

	// Weekly retention sweep: previous months' records are discarded
	attendance.StartSweeper(svc, time.Duration(cfg.SweepIntervalHours)*time.Hour, utils.Sugar)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
