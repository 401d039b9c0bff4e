package model

import "time"

// Holiday 假期表 — 对应 holidays
type Holiday struct {
	HolidayID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"holiday_id"`
	Session   string    `gorm:"type:varchar(20);not null"                      json:"session"`
	Name      string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsActive  bool      `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Holiday) TableName() string { return "holidays" }

// Covers 判断指定日期是否落在假期区间内（按自然日，含两端）
func (h *Holiday) Covers(date time.Time) bool {
	d := date.Format("2006-01-02")
	return d >= h.StartDate.Format("2006-01-02") && d <= h.EndDate.Format("2006-01-02")
}

// TotalDays 假期总天数（含两端）
func (h *Holiday) TotalDays() int {
	days := int(h.EndDate.Sub(h.StartDate).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

