package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rfid-attend/backend/internal/model"
)

// AttendanceRecordRepository 考勤流水数据访问接口
type AttendanceRecordRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	// ListByRfidBetween 按刷卡时间升序返回某卡在 [from, to) 内的全部记录
	ListByRfidBetween(ctx context.Context, rfid string, from, to time.Time) ([]model.AttendanceRecord, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.AttendanceRecord, error)
	ListAll(ctx context.Context) ([]model.AttendanceRecord, error)
}

type attendanceRecordRepo struct {
	db *gorm.DB
}

// NewAttendanceRecordRepo 创建 AttendanceRecordRepository 实例
func NewAttendanceRecordRepo(db *gorm.DB) AttendanceRecordRepository {
	return &attendanceRecordRepo{db: db}
}

func (r *attendanceRecordRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRecordRepo) ListByRfidBetween(ctx context.Context, rfid string, from, to time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("rfid = ? AND scan_time >= ? AND scan_time < ?", rfid, from, to).
		Order("scan_time ASC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRecordRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("scan_time >= ? AND scan_time < ?", from, to).
		Order("scan_time ASC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRecordRepo) ListAll(ctx context.Context) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Order("scan_time ASC").
		Find(&records).Error
	return records, err
}
