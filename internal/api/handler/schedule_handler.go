package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/service"
	"rfid-attend/backend/pkg/response"
)

// ScheduleHandler 日课表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// GenerateAll 按全部设置展开日课表
// POST /api/v1/schedule/generate
func (h *ScheduleHandler) GenerateAll(c *gin.Context) {
	count, err := h.scheduleSvc.GenerateAll(c.Request.Context())
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"generated": count})
}

// ListEntries 按条件查询日课表条目
// GET /api/v1/schedule
func (h *ScheduleHandler) ListEntries(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, err := h.scheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// LookupEntries 查某班某日的条目
// GET /api/v1/schedule/lookup
func (h *ScheduleHandler) LookupEntries(c *gin.Context) {
	className := c.Query("class_name")
	date := c.Query("date")
	if className == "" || date == "" {
		response.BadRequest(c, 10001, "class_name 与 date 不能为空")
		return
	}

	entries, err := h.scheduleSvc.Lookup(c.Request.Context(), className, date)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// UpdateEntry 点修改单条日课表
// PUT /api/v1/schedule/:id
func (h *ScheduleHandler) UpdateEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "条目ID不能为空")
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.scheduleSvc.UpdateEntry(c.Request.Context(), id, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, entry)
}

// DuplicateEntry 把条目复制给另一个班级
// POST /api/v1/schedule/:id/duplicate
func (h *ScheduleHandler) DuplicateEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "条目ID不能为空")
		return
	}

	var req dto.DuplicateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.scheduleSvc.Duplicate(c.Request.Context(), id, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, entry)
}

// RetargetDuplicate 修改复制行的日期
// PUT /api/v1/schedule/:id/date
func (h *ScheduleHandler) RetargetDuplicate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "条目ID不能为空")
		return
	}

	var req dto.RetargetDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.scheduleSvc.RetargetDuplicate(c.Request.Context(), id, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, entry)
}

// DeleteDuplicate 删除复制行，母行不可删
// DELETE /api/v1/schedule/:id
func (h *ScheduleHandler) DeleteDuplicate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "条目ID不能为空")
		return
	}

	if err := h.scheduleSvc.DeleteDuplicate(c.Request.Context(), id); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ClearEntries 清空全部日课表
// DELETE /api/v1/schedule
func (h *ScheduleHandler) ClearEntries(c *gin.Context) {
	if err := h.scheduleSvc.Clear(c.Request.Context()); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleScheduleError 统一处理日课表模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 13001, "日课表条目不存在")
	case errors.Is(err, service.ErrEntryNotDuplicate):
		response.BadRequest(c, 13002, "仅复制出来的条目允许此操作")
	case errors.Is(err, service.ErrInvalidDateFormat):
		response.BadRequest(c, 13003, "日期格式不合法，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}

