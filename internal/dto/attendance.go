package dto

// ── 考勤模块 DTO ──

// ScanRequest 刷卡请求
type ScanRequest struct {
	Rfid string `json:"rfid" binding:"required,min=1,max=50"`
}

// ScanResult 刷卡成功的完整响应：本次记录 + 该卡当日近期历史
type ScanResult struct {
	Record  ScanResponse               `json:"record"`
	History []AttendanceRecordResponse `json:"history"`
}

// ScanResponse 刷卡结果响应
type ScanResponse struct {
	RecordID   string `json:"record_id"`
	Rfid       string `json:"rfid"`
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Roll       string `json:"roll"`
	Adm        string `json:"adm"`
	ClassName  string `json:"class_name"`
	Section    string `json:"section"`
	Session    string `json:"session"`
	Status     string `json:"status"`     // in / late / out
	Mode       string `json:"mode"`       // 刷卡时生效的模式
	ModeType   string `json:"mode_type"`  // auto / manual
	Timeliness string `json:"timeliness"` // early / ontime / late
	Message    string `json:"message"`
	ScanTime   string `json:"scan_time"`
	ScanClock  string `json:"scan_clock"` // "HH:MM"
}

// ── 卡号绑定 DTO ──

// AssignRfidRequest 绑定卡号请求
type AssignRfidRequest struct {
	UID  string `json:"uid"  binding:"required"`
	Rfid string `json:"rfid" binding:"required,min=1,max=50"`
}

// AssignmentResponse 绑定信息响应
type AssignmentResponse struct {
	UID       string `json:"uid"`
	Rfid      string `json:"rfid"`
	Name      string `json:"name"`
	Roll      string `json:"roll"`
	Adm       string `json:"adm"`
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
	Session   string `json:"session"`
	UpdatedAt string `json:"updated_at"`
}

// StudentListRequest 学生名册查询参数
type StudentListRequest struct {
	ClassName string `form:"class_name"`
	Section   string `form:"section"`
	Session   string `form:"session"`
	Search    string `form:"search"`   // 按姓名 / 学号 / 注册号模糊匹配
	Assigned  *bool  `form:"assigned"` // 仅看已绑定 / 未绑定
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	UID       string `json:"uid"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Roll      string `json:"roll"`
	Adm       string `json:"adm"`
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
	Session   string `json:"session"`
	Rfid      string `json:"rfid,omitempty"` // 已绑定时返回
}
