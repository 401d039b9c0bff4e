package dto

// ── 排程配置模块 DTO ──

// UpdateSetupRequest 更新配置基本信息请求
type UpdateSetupRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=1,max=100"`
	FromDate *string `json:"from_date"` // "2025-01-06"，空字符串表示清除
	ToDate   *string `json:"to_date"`
}

// ToggleClassRequest 班级勾选请求
type ToggleClassRequest struct {
	ClassName string `json:"class_name" binding:"required"`
}

// UpdateRuleRequest 更新星期规则请求
//
// 仅携带需要变更的字段；周一（day_index=0）上的变更会批量下发到全周
type UpdateRuleRequest struct {
	InStart  *string `json:"in_start"`
	InEnd    *string `json:"in_end"`
	OutStart *string `json:"out_start"`
	OutEnd   *string `json:"out_end"`
	IsOff    *bool   `json:"is_off"`
}

// SetupRuleResponse 星期规则响应
type SetupRuleResponse struct {
	ID       string `json:"id"`
	DayIndex int    `json:"day_index"`
	Day      string `json:"day"`
	InStart  string `json:"in_start"`
	InEnd    string `json:"in_end"`
	OutStart string `json:"out_start"`
	OutEnd   string `json:"out_end"`
	IsOff    bool   `json:"is_off"`
}

// SetupResponse 配置信息响应
type SetupResponse struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	SelectedClasses []string            `json:"selected_classes"`
	FromDate        string              `json:"from_date,omitempty"`
	ToDate          string              `json:"to_date,omitempty"`
	Generated       bool                `json:"generated"`
	Rules           []SetupRuleResponse `json:"rules,omitempty"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}
