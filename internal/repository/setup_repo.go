package repository

import (
	"context"

	"gorm.io/gorm"

	"rfid-attend/backend/internal/model"
)

// SetupRepository 考勤设置数据访问接口
type SetupRepository interface {
	Create(ctx context.Context, setup *model.Setup) error
	GetByID(ctx context.Context, id string) (*model.Setup, error)
	List(ctx context.Context) ([]model.Setup, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, setup *model.Setup) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	ReplaceRules(ctx context.Context, setupID string, rules []model.SetupRule) error
	SaveRules(ctx context.Context, rules []model.SetupRule) error
}

type setupRepo struct {
	db *gorm.DB
}

// NewSetupRepo 创建 SetupRepository 实例
func NewSetupRepo(db *gorm.DB) SetupRepository {
	return &setupRepo{db: db}
}

func (r *setupRepo) Create(ctx context.Context, setup *model.Setup) error {
	return r.db.WithContext(ctx).Create(setup).Error
}

func (r *setupRepo) GetByID(ctx context.Context, id string) (*model.Setup, error) {
	var setup model.Setup
	err := r.db.WithContext(ctx).
		Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_index ASC")
		}).
		Where("setup_id = ?", id).
		First(&setup).Error
	if err != nil {
		return nil, err
	}
	return &setup, nil
}

func (r *setupRepo) List(ctx context.Context) ([]model.Setup, error) {
	var setups []model.Setup
	err := r.db.WithContext(ctx).
		Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_index ASC")
		}).
		Order("created_at ASC").
		Find(&setups).Error
	return setups, err
}

func (r *setupRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Setup{}).Count(&count).Error
	return count, err
}

func (r *setupRepo) Update(ctx context.Context, setup *model.Setup) error {
	return r.db.WithContext(ctx).Save(setup).Error
}

func (r *setupRepo) Delete(ctx context.Context, id string) error {
	// setup_rules 通过外键级联删除
	return r.db.WithContext(ctx).
		Where("setup_id = ?", id).
		Delete(&model.Setup{}).Error
}

func (r *setupRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.Setup{}).Error
}

// ReplaceRules 整体替换某设置的周规则（生成规则时调用）
func (r *setupRepo) ReplaceRules(ctx context.Context, setupID string, rules []model.SetupRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("setup_id = ?", setupID).Delete(&model.SetupRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
}

// SaveRules 保存若干已存在的周规则（字段编辑时调用）
func (r *setupRepo) SaveRules(ctx context.Context, rules []model.SetupRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rules {
			if err := tx.Save(&rules[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
