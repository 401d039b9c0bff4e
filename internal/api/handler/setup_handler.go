package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/service"
	"rfid-attend/backend/pkg/response"
)

// SetupHandler 课表设置模块 HTTP 处理器
type SetupHandler struct {
	setupSvc service.SetupService
}

// NewSetupHandler 创建 SetupHandler
func NewSetupHandler(setupSvc service.SetupService) *SetupHandler {
	return &SetupHandler{setupSvc: setupSvc}
}

// ListSetups 获取设置列表
// GET /api/v1/setups
func (h *SetupHandler) ListSetups(c *gin.Context) {
	setups, err := h.setupSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": setups})
}

// GetSetup 获取设置详情
// GET /api/v1/setups/:id
func (h *SetupHandler) GetSetup(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设置ID不能为空")
		return
	}

	setup, err := h.setupSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.OK(c, setup)
}

// CreateSetup 创建设置，名称自动编号
// POST /api/v1/setups
func (h *SetupHandler) CreateSetup(c *gin.Context) {
	setup, err := h.setupSvc.Create(c.Request.Context())
	if err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.Created(c, setup)
}

// UpdateSetup 更新设置基本信息
// PUT /api/v1/setups/:id
func (h *SetupHandler) UpdateSetup(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设置ID不能为空")
		return
	}

	var req dto.UpdateSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	setup, err := h.setupSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.OK(c, setup)
}

// DeleteSetup 删除设置
// DELETE /api/v1/setups/:id
func (h *SetupHandler) DeleteSetup(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设置ID不能为空")
		return
	}

	if err := h.setupSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeleteAllSetups 清空全部设置
// DELETE /api/v1/setups
func (h *SetupHandler) DeleteAllSetups(c *gin.Context) {
	if err := h.setupSvc.DeleteAll(c.Request.Context()); err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.OK(c, nil)
}

// AvailableClasses 获取可勾选的班级清单
// GET /api/v1/setups/classes
func (h *SetupHandler) AvailableClasses(c *gin.Context) {
	classes, err := h.setupSvc.AvailableClasses(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": classes})
}

// ToggleClass 勾选或取消勾选班级
// POST /api/v1/setups/:id/classes/toggle
func (h *SetupHandler) ToggleClass(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设置ID不能为空")
		return
	}

	var req dto.ToggleClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	setup, err := h.setupSvc.ToggleClass(c.Request.Context(), id, req.ClassName)
	if err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.OK(c, setup)
}

// SelectAllClasses 勾选全部班级
// POST /api/v1/setups/:id/classes/select-all
func (h *SetupHandler) SelectAllClasses(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设置ID不能为空")
		return
	}

	setup, err := h.setupSvc.SelectAllClasses(c.Request.Context(), id)
	if err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.OK(c, setup)
}

// DeselectAllClasses 取消勾选全部班级
// POST /api/v1/setups/:id/classes/deselect-all
func (h *SetupHandler) DeselectAllClasses(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设置ID不能为空")
		return
	}

	setup, err := h.setupSvc.DeselectAllClasses(c.Request.Context(), id)
	if err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.OK(c, setup)
}

// GenerateRules 生成 7 条空白周规则
// POST /api/v1/setups/:id/rules/generate
func (h *SetupHandler) GenerateRules(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设置ID不能为空")
		return
	}

	setup, err := h.setupSvc.GenerateRules(c.Request.Context(), id)
	if err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.OK(c, setup)
}

// UpdateRule 更新某天的周规则，周一的修改批量套用到整周
// PUT /api/v1/setups/:id/rules/:dayIndex
func (h *SetupHandler) UpdateRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设置ID不能为空")
		return
	}

	dayIndex, err := strconv.Atoi(c.Param("dayIndex"))
	if err != nil || dayIndex < 0 || dayIndex > 6 {
		response.BadRequest(c, 10001, "dayIndex 须为 0-6 的整数")
		return
	}

	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	setup, err := h.setupSvc.UpdateRule(c.Request.Context(), id, dayIndex, &req)
	if err != nil {
		h.handleSetupError(c, err)
		return
	}

	response.OK(c, setup)
}

// handleSetupError 统一处理设置模块业务错误
func (h *SetupHandler) handleSetupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSetupNotFound):
		response.NotFound(c, 12001, "课表设置不存在")
	case errors.Is(err, service.ErrRuleNotFound):
		response.NotFound(c, 12002, "周规则不存在")
	case errors.Is(err, service.ErrRulesNotReady):
		response.BadRequest(c, 12003, "周规则尚未生成")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 12004, "起始日期不能晚于结束日期")
	case errors.Is(err, service.ErrInvalidDateFormat):
		response.BadRequest(c, 12005, "日期格式不合法，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
