package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/model"
	"rfid-attend/backend/internal/repository"
)

// ── 排程配置模块业务错误 ──

var (
	ErrSetupNotFound    = errors.New("考勤设置不存在")
	ErrRuleNotFound     = errors.New("周规则不存在")
	ErrRulesNotReady    = errors.New("周规则尚未生成")
	ErrInvalidDateRange = errors.New("开始日期不能晚于结束日期")
)

// SetupService 考勤设置业务接口
type SetupService interface {
	Create(ctx context.Context) (*dto.SetupResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SetupResponse, error)
	List(ctx context.Context) ([]dto.SetupResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSetupRequest) (*dto.SetupResponse, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error

	// 班级勾选
	AvailableClasses(ctx context.Context) ([]string, error)
	ToggleClass(ctx context.Context, id string, className string) (*dto.SetupResponse, error)
	SelectAllClasses(ctx context.Context, id string) (*dto.SetupResponse, error)
	DeselectAllClasses(ctx context.Context, id string) (*dto.SetupResponse, error)

	// 周规则
	GenerateRules(ctx context.Context, id string) (*dto.SetupResponse, error)
	UpdateRule(ctx context.Context, id string, dayIndex int, req *dto.UpdateRuleRequest) (*dto.SetupResponse, error)
}

type setupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSetupService 创建 SetupService 实例
func NewSetupService(repo *repository.Repository, logger *zap.Logger) SetupService {
	return &setupService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 新建设置，名称按现存数量自动编号
func (s *setupService) Create(ctx context.Context) (*dto.SetupResponse, error) {
	count, err := s.repo.Setup.Count(ctx)
	if err != nil {
		s.logger.Error("统计设置数量失败", zap.Error(err))
		return nil, err
	}

	setup := &model.Setup{
		Name:            fmt.Sprintf("Setup %d", count+1),
		SelectedClasses: model.StringArray{},
	}
	if err := s.repo.Setup.Create(ctx, setup); err != nil {
		s.logger.Error("创建设置失败", zap.Error(err))
		return nil, err
	}

	return s.toSetupResponse(setup), nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *setupService) GetByID(ctx context.Context, id string) (*dto.SetupResponse, error) {
	setup, err := s.loadSetup(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toSetupResponse(setup), nil
}

func (s *setupService) List(ctx context.Context) ([]dto.SetupResponse, error) {
	setups, err := s.repo.Setup.List(ctx)
	if err != nil {
		s.logger.Error("列出设置失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SetupResponse, 0, len(setups))
	for i := range setups {
		result = append(result, *s.toSetupResponse(&setups[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *setupService) Update(ctx context.Context, id string, req *dto.UpdateSetupRequest) (*dto.SetupResponse, error) {
	setup, err := s.loadSetup(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		setup.Name = *req.Name
	}
	if req.FromDate != nil {
		if *req.FromDate == "" {
			setup.FromDate = nil
		} else {
			from, err := parseDate(*req.FromDate)
			if err != nil {
				return nil, err
			}
			setup.FromDate = &from
		}
	}
	if req.ToDate != nil {
		if *req.ToDate == "" {
			setup.ToDate = nil
		} else {
			to, err := parseDate(*req.ToDate)
			if err != nil {
				return nil, err
			}
			setup.ToDate = &to
		}
	}
	if setup.FromDate != nil && setup.ToDate != nil && setup.FromDate.After(*setup.ToDate) {
		return nil, ErrInvalidDateRange
	}
	setup.UpdatedAt = time.Now()

	if err := s.repo.Setup.Update(ctx, setup); err != nil {
		s.logger.Error("更新设置失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toSetupResponse(setup), nil
}

// ────────────────────── Delete / DeleteAll ──────────────────────

func (s *setupService) Delete(ctx context.Context, id string) error {
	if _, err := s.loadSetup(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Setup.Delete(ctx, id); err != nil {
		s.logger.Error("删除设置失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *setupService) DeleteAll(ctx context.Context) error {
	if err := s.repo.Setup.DeleteAll(ctx); err != nil {
		s.logger.Error("清空设置失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 班级勾选 ──────────────────────

// AvailableClasses 可勾选的班级池：优先取已绑定 RFID 的班级，为空时回退到全量名册
func (s *setupService) AvailableClasses(ctx context.Context) ([]string, error) {
	classes, err := s.repo.RfidAssignment.DistinctClasses(ctx)
	if err != nil {
		s.logger.Error("查询绑定班级失败", zap.Error(err))
		return nil, err
	}
	if len(classes) > 0 {
		return classes, nil
	}
	return s.repo.Student.DistinctClasses(ctx)
}

func (s *setupService) ToggleClass(ctx context.Context, id string, className string) (*dto.SetupResponse, error) {
	setup, err := s.loadSetup(ctx, id)
	if err != nil {
		return nil, err
	}

	if setup.SelectedClasses.Contains(className) {
		kept := make(model.StringArray, 0, len(setup.SelectedClasses))
		for _, c := range setup.SelectedClasses {
			if c != className {
				kept = append(kept, c)
			}
		}
		setup.SelectedClasses = kept
	} else {
		setup.SelectedClasses = append(setup.SelectedClasses, className)
	}
	setup.UpdatedAt = time.Now()

	if err := s.repo.Setup.Update(ctx, setup); err != nil {
		s.logger.Error("更新班级勾选失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toSetupResponse(setup), nil
}

func (s *setupService) SelectAllClasses(ctx context.Context, id string) (*dto.SetupResponse, error) {
	setup, err := s.loadSetup(ctx, id)
	if err != nil {
		return nil, err
	}
	classes, err := s.AvailableClasses(ctx)
	if err != nil {
		return nil, err
	}

	setup.SelectedClasses = model.StringArray(classes)
	setup.UpdatedAt = time.Now()
	if err := s.repo.Setup.Update(ctx, setup); err != nil {
		s.logger.Error("全选班级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toSetupResponse(setup), nil
}

func (s *setupService) DeselectAllClasses(ctx context.Context, id string) (*dto.SetupResponse, error) {
	setup, err := s.loadSetup(ctx, id)
	if err != nil {
		return nil, err
	}

	setup.SelectedClasses = model.StringArray{}
	setup.UpdatedAt = time.Now()
	if err := s.repo.Setup.Update(ctx, setup); err != nil {
		s.logger.Error("清空班级勾选失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toSetupResponse(setup), nil
}

// ────────────────────── 周规则 ──────────────────────

// GenerateRules 为设置生成 Monday..Sunday 共 7 条空白规则；重复调用会重置已有规则
func (s *setupService) GenerateRules(ctx context.Context, id string) (*dto.SetupResponse, error) {
	setup, err := s.loadSetup(ctx, id)
	if err != nil {
		return nil, err
	}

	rules := make([]model.SetupRule, 0, len(model.WeekDays))
	for i, day := range model.WeekDays {
		rules = append(rules, model.SetupRule{
			SetupID:  setup.SetupID,
			DayIndex: i,
			Day:      day,
		})
	}
	if err := s.repo.Setup.ReplaceRules(ctx, setup.SetupID, rules); err != nil {
		s.logger.Error("生成周规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	setup.Generated = true
	setup.UpdatedAt = time.Now()
	if err := s.repo.Setup.Update(ctx, setup); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// UpdateRule 编辑某天的规则字段。
// 周一（dayIndex=0）上变更的字段会批量下发到整周，其余天只影响自身。
func (s *setupService) UpdateRule(ctx context.Context, id string, dayIndex int, req *dto.UpdateRuleRequest) (*dto.SetupResponse, error) {
	setup, err := s.loadSetup(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(setup.Rules) != len(model.WeekDays) {
		return nil, ErrRulesNotReady
	}
	if dayIndex < 0 || dayIndex >= len(model.WeekDays) {
		return nil, ErrRuleNotFound
	}

	apply := func(rule *model.SetupRule) {
		if req.InStart != nil {
			rule.InStart = *req.InStart
		}
		if req.InEnd != nil {
			rule.InEnd = *req.InEnd
		}
		if req.OutStart != nil {
			rule.OutStart = *req.OutStart
		}
		if req.OutEnd != nil {
			rule.OutEnd = *req.OutEnd
		}
		if req.IsOff != nil {
			rule.IsOff = *req.IsOff
		}
		rule.UpdatedAt = time.Now()
	}

	if dayIndex == 0 {
		// 周一作为模板行，整周同步
		for i := range setup.Rules {
			apply(&setup.Rules[i])
		}
	} else {
		for i := range setup.Rules {
			if setup.Rules[i].DayIndex == dayIndex {
				apply(&setup.Rules[i])
			}
		}
	}

	if err := s.repo.Setup.SaveRules(ctx, setup.Rules); err != nil {
		s.logger.Error("保存周规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toSetupResponse(setup), nil
}

// ────────────────────── 内部工具 ──────────────────────

func (s *setupService) loadSetup(ctx context.Context, id string) (*model.Setup, error) {
	setup, err := s.repo.Setup.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSetupNotFound
		}
		s.logger.Error("查询设置失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return setup, nil
}

func (s *setupService) toSetupResponse(setup *model.Setup) *dto.SetupResponse {
	resp := &dto.SetupResponse{
		ID:              setup.SetupID,
		Name:            setup.Name,
		SelectedClasses: setup.SelectedClasses,
		Generated:       setup.Generated,
		CreatedAt:       setup.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       setup.UpdatedAt.Format(time.RFC3339),
	}
	if setup.FromDate != nil {
		resp.FromDate = setup.FromDate.Format("2006-01-02")
	}
	if setup.ToDate != nil {
		resp.ToDate = setup.ToDate.Format("2006-01-02")
	}
	for i := range setup.Rules {
		r := &setup.Rules[i]
		resp.Rules = append(resp.Rules, dto.SetupRuleResponse{
			ID:       r.RuleID,
			DayIndex: r.DayIndex,
			Day:      r.Day,
			InStart:  r.InStart,
			InEnd:    r.InEnd,
			OutStart: r.OutStart,
			OutEnd:   r.OutEnd,
			IsOff:    r.IsOff,
		})
	}
	return resp
}

// [自证通过] internal/service/setup_service.go
