package dto

// ── 假期模块 DTO ──

// CreateHolidayRequest 创建假期请求
type CreateHolidayRequest struct {
	Session   string `json:"session"    binding:"required"` // "2025-2026"
	Name      string `json:"name"       binding:"required,min=1,max=100"`
	StartDate string `json:"start_date" binding:"required"` // "2025-01-06"
	EndDate   string `json:"end_date"   binding:"required"`
}

// UpdateHolidayRequest 更新假期请求
type UpdateHolidayRequest struct {
	Session   *string `json:"session"`
	Name      *string `json:"name"       binding:"omitempty,min=1,max=100"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

// HolidayListRequest 假期列表查询参数
type HolidayListRequest struct {
	Session    string `form:"session"`
	ActiveOnly bool   `form:"active_only"`
}

// HolidayResponse 假期信息响应
type HolidayResponse struct {
	ID        string `json:"id"`
	Session   string `json:"session"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalDays int    `json:"total_days"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
