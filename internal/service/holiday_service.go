package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/model"
	"rfid-attend/backend/internal/repository"
)

// ── 假期模块业务错误 ──

var (
	ErrHolidayNotFound    = errors.New("假期不存在")
	ErrInvalidDateFormat  = errors.New("日期格式不合法，应为 YYYY-MM-DD")
	ErrInvalidHolidayDate = errors.New("开始日期不能晚于结束日期")
)

// HolidayService 假期业务接口
type HolidayService interface {
	Create(ctx context.Context, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error)
	GetByID(ctx context.Context, id string) (*dto.HolidayResponse, error)
	List(ctx context.Context, req *dto.HolidayListRequest) ([]dto.HolidayResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateHolidayRequest) (*dto.HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	// IsHoliday 指定日期是否落在任一启用假期的区间内
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

type holidayService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewHolidayService 创建 HolidayService 实例
func NewHolidayService(repo *repository.Repository, logger *zap.Logger) HolidayService {
	return &holidayService{repo: repo, logger: logger}
}

// parseDate 解析 YYYY-MM-DD 日期
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ────────────────────── Create ──────────────────────

func (s *holidayService) Create(ctx context.Context, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidHolidayDate
	}

	holiday := &model.Holiday{
		Session:   req.Session,
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}

	if err := s.repo.Holiday.Create(ctx, holiday); err != nil {
		s.logger.Error("创建假期失败", zap.Error(err))
		return nil, err
	}

	return s.toHolidayResponse(holiday), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *holidayService) GetByID(ctx context.Context, id string) (*dto.HolidayResponse, error) {
	holiday, err := s.repo.Holiday.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHolidayNotFound
		}
		s.logger.Error("查询假期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toHolidayResponse(holiday), nil
}

// ────────────────────── List ──────────────────────

func (s *holidayService) List(ctx context.Context, req *dto.HolidayListRequest) ([]dto.HolidayResponse, error) {
	var (
		holidays []model.Holiday
		err      error
	)
	if req.ActiveOnly {
		holidays, err = s.repo.Holiday.ListActive(ctx)
	} else {
		holidays, err = s.repo.Holiday.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出假期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.HolidayResponse, 0, len(holidays))
	for i := range holidays {
		if req.Session != "" && holidays[i].Session != req.Session {
			continue
		}
		result = append(result, *s.toHolidayResponse(&holidays[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *holidayService) Update(ctx context.Context, id string, req *dto.UpdateHolidayRequest) (*dto.HolidayResponse, error) {
	holiday, err := s.repo.Holiday.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHolidayNotFound
		}
		s.logger.Error("查询假期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Session != nil {
		holiday.Session = *req.Session
	}
	if req.Name != nil {
		holiday.Name = *req.Name
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		holiday.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		holiday.EndDate = end
	}
	if holiday.StartDate.After(holiday.EndDate) {
		return nil, ErrInvalidHolidayDate
	}
	if req.IsActive != nil {
		holiday.IsActive = *req.IsActive
	}
	holiday.UpdatedAt = time.Now()

	if err := s.repo.Holiday.Update(ctx, holiday); err != nil {
		s.logger.Error("更新假期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toHolidayResponse(holiday), nil
}

// ────────────────────── Delete ──────────────────────

func (s *holidayService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Holiday.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHolidayNotFound
		}
		return err
	}
	if err := s.repo.Holiday.Delete(ctx, id); err != nil {
		s.logger.Error("删除假期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── IsHoliday ──────────────────────

func (s *holidayService) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	holidays, err := s.repo.Holiday.ListActive(ctx)
	if err != nil {
		return false, err
	}
	for i := range holidays {
		if holidays[i].Covers(date) {
			return true, nil
		}
	}
	return false, nil
}

// ────────────────────── 响应转换 ──────────────────────

func (s *holidayService) toHolidayResponse(h *model.Holiday) *dto.HolidayResponse {
	return &dto.HolidayResponse{
		ID:        h.HolidayID,
		Session:   h.Session,
		Name:      h.Name,
		StartDate: h.StartDate.Format("2006-01-02"),
		EndDate:   h.EndDate.Format("2006-01-02"),
		TotalDays: h.TotalDays(),
		IsActive:  h.IsActive,
		CreatedAt: h.CreatedAt.Format(time.RFC3339),
		UpdatedAt: h.UpdatedAt.Format(time.RFC3339),
	}
}

