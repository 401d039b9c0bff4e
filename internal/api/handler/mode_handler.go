package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/service"
	"rfid-attend/backend/pkg/response"
)

// ModeHandler 考勤模式模块 HTTP 处理器
type ModeHandler struct {
	modeSvc service.ModeService
}

// NewModeHandler 创建 ModeHandler
func NewModeHandler(modeSvc service.ModeService) *ModeHandler {
	return &ModeHandler{modeSvc: modeSvc}
}

// Snapshot 全部班级当前模式快照
// GET /api/v1/modes
func (h *ModeHandler) Snapshot(c *gin.Context) {
	modes, err := h.modeSvc.Snapshot(c.Request.Context(), time.Now())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": modes})
}

// SetManual 手工锁定某班模式
// PUT /api/v1/modes/:class
func (h *ModeHandler) SetManual(c *gin.Context) {
	className := c.Param("class")
	if className == "" {
		response.BadRequest(c, 10001, "班级不能为空")
		return
	}

	var req dto.SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.modeSvc.SetManual(className, req.Mode); err != nil {
		h.handleModeError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResetToAuto 解除手工锁定，恢复自动解析
// DELETE /api/v1/modes/:class
func (h *ModeHandler) ResetToAuto(c *gin.Context) {
	className := c.Param("class")
	if className == "" {
		response.BadRequest(c, 10001, "班级不能为空")
		return
	}

	h.modeSvc.ResetToAuto(className)
	response.OK(c, nil)
}

// handleModeError 统一处理模式模块业务错误
func (h *ModeHandler) handleModeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMode):
		response.BadRequest(c, 14001, "模式仅支持 in、late、out")
	default:
		response.InternalError(c)
	}
}
