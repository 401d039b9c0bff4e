package model

import "time"

// Student 学生名册表 — 对应 students
// uid 由 班级-分部-班内编号 拼接而成，全校唯一
type Student struct {
	UID         string    `gorm:"type:varchar(50);primaryKey"        json:"uid"`
	StudentCode string    `gorm:"type:varchar(20);not null"          json:"student_code"`
	Name        string    `gorm:"type:varchar(100);not null"         json:"name"`
	Roll        string    `gorm:"type:varchar(20);not null"          json:"roll"`
	Adm         string    `gorm:"type:varchar(20);not null"          json:"adm"`
	ClassName   string    `gorm:"type:varchar(20);not null;index"    json:"class_name"`
	Section     string    `gorm:"type:varchar(10);not null"          json:"section"`
	Session     string    `gorm:"type:varchar(20);not null"          json:"session"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// RfidAssignment RFID 绑定表 — 对应 rfid_assignments
// 一名学生至多绑定一张卡，卡号全局唯一
type RfidAssignment struct {
	UID       string    `gorm:"type:varchar(50);primaryKey"        json:"uid"`
	Rfid      string    `gorm:"type:varchar(50);not null;unique"   json:"rfid"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// 关联
	Student *Student `gorm:"foreignKey:UID;references:UID" json:"student,omitempty"`
}

// TableName 指定表名
func (RfidAssignment) TableName() string { return "rfid_assignments" }

