package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rfid-attend/backend/internal/model"
)

// RfidAssignmentRepository RFID 绑定数据访问接口
type RfidAssignmentRepository interface {
	GetByRfid(ctx context.Context, rfid string) (*model.RfidAssignment, error)
	GetByUID(ctx context.Context, uid string) (*model.RfidAssignment, error)
	List(ctx context.Context) ([]model.RfidAssignment, error)
	ExistsRfid(ctx context.Context, rfid string) (bool, error)
	Upsert(ctx context.Context, assignment *model.RfidAssignment) error
	DeleteByUID(ctx context.Context, uid string) error
	DistinctClasses(ctx context.Context) ([]string, error)
}

type rfidAssignmentRepo struct {
	db *gorm.DB
}

// NewRfidAssignmentRepo 创建 RfidAssignmentRepository 实例
func NewRfidAssignmentRepo(db *gorm.DB) RfidAssignmentRepository {
	return &rfidAssignmentRepo{db: db}
}

func (r *rfidAssignmentRepo) GetByRfid(ctx context.Context, rfid string) (*model.RfidAssignment, error) {
	var assignment model.RfidAssignment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("rfid = ?", rfid).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *rfidAssignmentRepo) GetByUID(ctx context.Context, uid string) (*model.RfidAssignment, error) {
	var assignment model.RfidAssignment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("uid = ?", uid).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *rfidAssignmentRepo) List(ctx context.Context) ([]model.RfidAssignment, error) {
	var assignments []model.RfidAssignment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Order("uid ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *rfidAssignmentRepo) ExistsRfid(ctx context.Context, rfid string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RfidAssignment{}).
		Where("rfid = ?", rfid).
		Count(&count).Error
	return count > 0, err
}

// Upsert 写入绑定；同一学生重复绑定时覆盖旧卡号
func (r *rfidAssignmentRepo) Upsert(ctx context.Context, assignment *model.RfidAssignment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"rfid", "updated_at"}),
		}).
		Create(assignment).Error
}

func (r *rfidAssignmentRepo) DeleteByUID(ctx context.Context, uid string) error {
	result := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		Delete(&model.RfidAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DistinctClasses 已绑定 RFID 的学生所覆盖的班级集合
func (r *rfidAssignmentRepo) DistinctClasses(ctx context.Context) ([]string, error) {
	var classes []string
	err := r.db.WithContext(ctx).
		Model(&model.RfidAssignment{}).
		Joins("JOIN students s ON s.uid = rfid_assignments.uid").
		Distinct("s.class_name").
		Order("s.class_name ASC").
		Pluck("s.class_name", &classes).Error
	return classes, err
}
