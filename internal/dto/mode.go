package dto

// ── 模式模块 DTO ──

// SetModeRequest 手动固定某班模式请求
type SetModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=in late out"`
}

// ClassModeResponse 单个班级的模式快照
type ClassModeResponse struct {
	ClassName string `json:"class_name"`
	Mode      string `json:"mode,omitempty"`  // in / late / out；未解析时为空
	ModeType  string `json:"mode_type"`       // auto / manual
	Resolved  bool   `json:"resolved"`        // 自动解析是否命中
	InStart   string `json:"in_start"`        // 今日窗口
	InEnd     string `json:"in_end"`
	OutStart  string `json:"out_start"`
	OutEnd    string `json:"out_end"`
	IsOff     bool   `json:"is_off"`
	IsHoliday bool   `json:"is_holiday"`
}
