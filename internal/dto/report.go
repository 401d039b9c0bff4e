package dto

// ── 报表模块 DTO ──

// ReportListRequest 考勤报表查询参数
type ReportListRequest struct {
	PaginationRequest
	Date      string `form:"date"`       // 单日 "2025-01-06"
	FromDate  string `form:"from_date"`  // 区间起（含）
	ToDate    string `form:"to_date"`    // 区间止（含）
	Session   string `form:"session"`
	ClassName string `form:"class_name"`
	Section   string `form:"section"`
	Mode      string `form:"mode"   binding:"omitempty,oneof=in late out"`
	Status    string `form:"status" binding:"omitempty,oneof=in late out"`
}

// ReportRowResponse 日报表行：每名已绑定学生一行
type ReportRowResponse struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
	Roll      string `json:"roll"`
	Rfid      string `json:"rfid"`
	InTime    string `json:"in_time"`  // 首次进校 "HH:MM"，无则空
	OutTime   string `json:"out_time"` // 首次离校 "HH:MM"，无则空
	Status    string `json:"status"`   // Present / Absent
}

// AttendanceRecordResponse 考勤记录响应
type AttendanceRecordResponse struct {
	ID         string `json:"id"`
	Rfid       string `json:"rfid"`
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Roll       string `json:"roll"`
	Adm        string `json:"adm"`
	ClassName  string `json:"class_name"`
	Section    string `json:"section"`
	Session    string `json:"session"`
	Status     string `json:"status"`
	Mode       string `json:"mode"`
	ModeType   string `json:"mode_type"`
	Timeliness string `json:"timeliness"`
	Message    string `json:"message"`
	ScanTime   string `json:"scan_time"`
	ScanClock  string `json:"scan_clock"`
}

// ReportSummaryResponse 报表汇总响应
type ReportSummaryResponse struct {
	Total   int `json:"total"`
	In      int `json:"in"`
	Late    int `json:"late"`
	Out     int `json:"out"`
	Early   int `json:"early"`
	OnTime  int `json:"ontime"`
	LateFor int `json:"late_for"` // timeliness=late 的记录数
}
