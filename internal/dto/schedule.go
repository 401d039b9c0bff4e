package dto

// ── 课表条目模块 DTO ──

// ScheduleListRequest 课表条目列表查询参数
type ScheduleListRequest struct {
	SetupID   string `form:"setup_id"   binding:"omitempty,uuid"`
	ClassName string `form:"class_name"`
	Date      string `form:"date"` // "2025-01-06"
}

// UpdateEntryRequest 编辑单条课表条目请求
type UpdateEntryRequest struct {
	InStart  *string `json:"in_start"`
	InEnd    *string `json:"in_end"`
	OutStart *string `json:"out_start"`
	OutEnd   *string `json:"out_end"`
	IsOff    *bool   `json:"is_off"`
}

// DuplicateEntryRequest 把条目复制给另一个班级的请求
type DuplicateEntryRequest struct {
	ClassName string `json:"class_name" binding:"required"` // 接收副本的班级
}

// RetargetDuplicateRequest 调整副本日期请求
type RetargetDuplicateRequest struct {
	Date string `json:"date" binding:"required"`
}

// ScheduleEntryResponse 课表条目响应
type ScheduleEntryResponse struct {
	ID            string `json:"id"`
	SetupID       string `json:"setup_id"`
	ClassName     string `json:"class_name"`
	Date          string `json:"date"`
	Day           string `json:"day"`
	InStart       string `json:"in_start"`
	InEnd         string `json:"in_end"`
	OutStart      string `json:"out_start"`
	OutEnd        string `json:"out_end"`
	IsOff         bool   `json:"is_off"`
	IsHoliday     bool   `json:"is_holiday"`
	IsDuplicated  bool   `json:"is_duplicated"`
	OriginalDate  string `json:"original_date,omitempty"`
	OriginalClass string `json:"original_class,omitempty"`
}
