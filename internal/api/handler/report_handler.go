package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/service"
	"rfid-attend/backend/pkg/response"
)

// ReportHandler 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ListRecords 按条件查询原始刷卡流水
// GET /api/v1/reports/records
func (h *ReportHandler) ListRecords(c *gin.Context) {
	var req dto.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, total, err := h.reportSvc.Records(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// Summary 统计汇总
// GET /api/v1/reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	var req dto.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	summary, err := h.reportSvc.Summary(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, summary)
}

// Daily 日报表，每名已绑定学生一行
// GET /api/v1/reports/daily
func (h *ReportHandler) Daily(c *gin.Context) {
	var req dto.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rows, err := h.reportSvc.Daily(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rows})
}

// handleReportError 统一处理报表模块业务错误
func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateFormat):
		response.BadRequest(c, 17001, "日期格式不合法，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
