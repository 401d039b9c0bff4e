package repository

import (
	"context"

	"gorm.io/gorm"

	"rfid-attend/backend/internal/model"
)

// ScheduleEntryFilter 课表查询条件
type ScheduleEntryFilter struct {
	SetupID   string
	ClassName string
	Date      string // YYYY-MM-DD
}

// ScheduleEntryRepository 日课表数据访问接口
type ScheduleEntryRepository interface {
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	List(ctx context.Context, filter ScheduleEntryFilter) ([]model.ScheduleEntry, error)
	ListByDate(ctx context.Context, date string) ([]model.ScheduleEntry, error)
	ListByClassAndDate(ctx context.Context, className, date string) ([]model.ScheduleEntry, error)
	ListDuplicated(ctx context.Context) ([]model.ScheduleEntry, error)
	Update(ctx context.Context, entry *model.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
	// ReplaceGenerated 在单个事务内：删除全部非复制行、删除 dropIDs 指定的复制行、
	// 批量写入新展开的行
	ReplaceGenerated(ctx context.Context, entries []model.ScheduleEntry, dropIDs []string) error
	Clear(ctx context.Context) error
}

type scheduleEntryRepo struct {
	db *gorm.DB
}

// NewScheduleEntryRepo 创建 ScheduleEntryRepository 实例
func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) List(ctx context.Context, filter ScheduleEntryFilter) ([]model.ScheduleEntry, error) {
	tx := r.db.WithContext(ctx).Model(&model.ScheduleEntry{})
	if filter.SetupID != "" {
		tx = tx.Where("setup_id = ?", filter.SetupID)
	}
	if filter.ClassName != "" {
		tx = tx.Where("class_name = ?", filter.ClassName)
	}
	if filter.Date != "" {
		tx = tx.Where("date = ?", filter.Date)
	}

	var entries []model.ScheduleEntry
	err := tx.Order("date ASC, class_name ASC, is_duplicated ASC").Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListByDate(ctx context.Context, date string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("class_name ASC, is_duplicated ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListByClassAndDate(ctx context.Context, className, date string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("class_name = ? AND date = ?", className, date).
		Order("is_duplicated ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListDuplicated(ctx context.Context) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("is_duplicated = ?", true).
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) Update(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *scheduleEntryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("entry_id = ?", id).
		Delete(&model.ScheduleEntry{}).Error
}

func (r *scheduleEntryRepo) ReplaceGenerated(ctx context.Context, entries []model.ScheduleEntry, dropIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("is_duplicated = ?", false).Delete(&model.ScheduleEntry{}).Error; err != nil {
			return err
		}
		if len(dropIDs) > 0 {
			if err := tx.Where("entry_id IN ?", dropIDs).Delete(&model.ScheduleEntry{}).Error; err != nil {
				return err
			}
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(&entries, 200).Error
	})
}

func (r *scheduleEntryRepo) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.ScheduleEntry{}).Error
}
