package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"rfid-attend/backend/internal/model"
)

// StudentFilter 学生名册查询条件
type StudentFilter struct {
	ClassName string
	Section   string
	Session   string
	Search    string // 姓名/学号/注册号模糊匹配
}

// StudentRepository 学生名册数据访问接口
type StudentRepository interface {
	GetByUID(ctx context.Context, uid string) (*model.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]model.Student, error)
	DistinctClasses(ctx context.Context) ([]string, error)
	DistinctSections(ctx context.Context) ([]string, error)
	DistinctSessions(ctx context.Context) ([]string, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) GetByUID(ctx context.Context, uid string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context, filter StudentFilter) ([]model.Student, error) {
	tx := r.db.WithContext(ctx).Model(&model.Student{})
	if filter.ClassName != "" {
		tx = tx.Where("class_name = ?", filter.ClassName)
	}
	if filter.Section != "" {
		tx = tx.Where("section = ?", filter.Section)
	}
	if filter.Session != "" {
		tx = tx.Where("session = ?", filter.Session)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(roll) LIKE ? OR LOWER(adm) LIKE ?", like, like, like)
	}

	var students []model.Student
	err := tx.Order("class_name ASC, section ASC, roll ASC").Find(&students).Error
	return students, err
}

func (r *studentRepo) DistinctClasses(ctx context.Context) ([]string, error) {
	var classes []string
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Distinct("class_name").
		Order("class_name ASC").
		Pluck("class_name", &classes).Error
	return classes, err
}

func (r *studentRepo) DistinctSections(ctx context.Context) ([]string, error) {
	var sections []string
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Distinct("section").
		Order("section ASC").
		Pluck("section", &sections).Error
	return sections, err
}

func (r *studentRepo) DistinctSessions(ctx context.Context) ([]string, error) {
	var sessions []string
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Distinct("session").
		Order("session ASC").
		Pluck("session", &sessions).Error
	return sessions, err
}
