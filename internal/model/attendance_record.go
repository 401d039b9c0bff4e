package model

import "time"

// ── 考勤模式 ──

const (
	ModeIn   = "in"
	ModeLate = "late"
	ModeOut  = "out"
)

// ── 准点性分类 ──

const (
	TimelinessEarly  = "early"
	TimelinessOnTime = "ontime"
	TimelinessLate   = "late"
)

// ── 模式来源 ──

const (
	ModeTypeAuto   = "auto"
	ModeTypeManual = "manual"
)

// AttendanceRecord 考勤流水表 — 对应 attendance_records
// 只追加不修改；学生信息按刷卡时刻快照存储
type AttendanceRecord struct {
	RecordID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	Rfid        string    `gorm:"type:varchar(50);not null;index:idx_attendance_records_rfid_time" json:"rfid"`
	StudentUID  string    `gorm:"type:varchar(50);not null"            json:"student_uid"`
	StudentName string    `gorm:"type:varchar(100);not null"           json:"student_name"`
	ClassName   string    `gorm:"type:varchar(20);not null"            json:"class_name"`
	Section     string    `gorm:"type:varchar(10);not null"            json:"section"`
	Roll        string    `gorm:"type:varchar(20);not null"            json:"roll"`
	Adm         string    `gorm:"type:varchar(20);not null"            json:"adm"`
	Status      string    `gorm:"type:varchar(10);not null"            json:"status"` // in | late | out
	Mode        string    `gorm:"type:varchar(10);not null"            json:"mode"`
	ModeType    string    `gorm:"type:varchar(10);not null;default:'auto'" json:"mode_type"` // auto | manual
	Timeliness  string    `gorm:"type:varchar(10);not null"            json:"timeliness"` // early | ontime | late
	Message     string    `gorm:"type:text;not null;default:''"        json:"message"`
	ScanTime    time.Time `gorm:"not null;index:idx_attendance_records_rfid_time" json:"scan_time"`
	ScanClock   string    `gorm:"type:varchar(5);not null"             json:"scan_clock"` // HH:MM
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"created_at"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// Inside 依据状态判断该条记录之后学生是否在校内
func (r *AttendanceRecord) Inside() bool {
	return r.Status == ModeIn || r.Status == ModeLate
}

// [自证通过] internal/model/attendance_record.go
