package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"rfid-attend/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestModeService() (ModeService, *mockHolidayRepo, *mockScheduleEntryRepo) {
	repo, holidayRepo, _, entryRepo, _, _, _ := newTestRepository()
	schedule := NewScheduleService(repo, nil, zap.NewNop())
	svc := NewModeService(repo, schedule, zap.NewNop())
	return svc, holidayRepo, entryRepo
}

// seedDayEntry 某班 2025-01-06 的标准条目：进校 08:00-09:00，离校 14:00-15:00
func seedDayEntry(t *testing.T, entryRepo *mockScheduleEntryRepo, className string) *model.ScheduleEntry {
	t.Helper()
	entry := &model.ScheduleEntry{
		SetupID:   "setup-001",
		ClassName: className,
		Date:      mustDate(t, "2025-01-06"),
		Day:       "Monday",
		InStart:   "08:00",
		InEnd:     "09:00",
		OutStart:  "14:00",
		OutEnd:    "15:00",
	}
	if err := entryRepo.Create(context.Background(), entry); err != nil {
		t.Fatalf("写入测试条目失败: %v", err)
	}
	return entry
}

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	now, err := time.Parse("2006-01-02 15:04", "2025-01-06 "+clock)
	if err != nil {
		t.Fatalf("测试时刻不合法: %v", err)
	}
	return now
}

// ── resolveAutoMode 测试（纯函数，全时段穷举） ──

func TestResolveAutoMode_BranchOrder(t *testing.T) {
	entry := &model.ScheduleEntry{
		InStart:  "08:00",
		InEnd:    "09:00",
		OutStart: "14:00",
		OutEnd:   "15:00",
	}

	cases := []struct {
		clock    string
		want     string
		resolved bool
	}{
		{"07:30", model.ModeOut, true}, // 进校窗口前兜底为 out
		{"08:00", model.ModeIn, true},  // 窗口起点含
		{"08:15", model.ModeIn, true},
		{"09:00", model.ModeIn, true}, // 窗口终点含
		{"10:00", model.ModeLate, true},
		{"13:59", model.ModeLate, true},
		{"14:00", model.ModeOut, true},
		{"14:10", model.ModeOut, true},
		{"15:00", model.ModeOut, true},
		{"20:00", model.ModeOut, true}, // 离校窗口后兜底为 out
	}
	for _, c := range cases {
		got, resolved := resolveAutoMode(entry, c.clock)
		if got != c.want || resolved != c.resolved {
			t.Errorf("clock=%s 期望(%s,%v)，实际(%s,%v)", c.clock, c.want, c.resolved, got, resolved)
		}
	}
}

func TestResolveAutoMode_BlankWindowsUnresolved(t *testing.T) {
	entry := &model.ScheduleEntry{}
	got, resolved := resolveAutoMode(entry, "08:15")
	if resolved {
		t.Errorf("空白窗口不应解析出模式，实际=%s", got)
	}
}

func TestResolveAutoMode_InWindowOnly(t *testing.T) {
	// 只配进校窗口：窗口后一律 out
	entry := &model.ScheduleEntry{InStart: "08:00", InEnd: "09:00"}

	if got, _ := resolveAutoMode(entry, "08:30"); got != model.ModeIn {
		t.Errorf("窗口内期望in，实际=%s", got)
	}
	if got, _ := resolveAutoMode(entry, "10:00"); got != model.ModeOut {
		t.Errorf("窗口后期望out，实际=%s", got)
	}
}

// ── OnTick / EffectiveMode 测试 ──

func TestModeService_OnTick_ResolvesPerClass(t *testing.T) {
	svc, _, entryRepo := setupTestModeService()
	seedDayEntry(t, entryRepo, "I")
	seedDayEntry(t, entryRepo, "II")

	svc.OnTick(context.Background(), at(t, "08:15"))

	for _, class := range []string{"I", "II"} {
		mode, modeType, ok := svc.EffectiveMode(class)
		if !ok {
			t.Fatalf("%s班应有生效模式", class)
		}
		if mode != model.ModeIn || modeType != model.ModeTypeAuto {
			t.Errorf("%s班期望(in,auto)，实际(%s,%s)", class, mode, modeType)
		}
	}
}

func TestModeService_OnTick_ModeTimeline(t *testing.T) {
	svc, _, entryRepo := setupTestModeService()
	seedDayEntry(t, entryRepo, "I")

	timeline := []struct {
		clock string
		want  string
	}{
		{"08:15", model.ModeIn},
		{"10:00", model.ModeLate},
		{"14:10", model.ModeOut},
		{"20:00", model.ModeOut},
	}
	for _, step := range timeline {
		svc.OnTick(context.Background(), at(t, step.clock))
		mode, _, ok := svc.EffectiveMode("I")
		if !ok || mode != step.want {
			t.Errorf("clock=%s 期望mode=%s，实际=%s(ok=%v)", step.clock, step.want, mode, ok)
		}
	}
}

func TestModeService_OnTick_HolidayNoMode(t *testing.T) {
	svc, holidayRepo, entryRepo := setupTestModeService()
	seedDayEntry(t, entryRepo, "I")
	if err := holidayRepo.Create(context.Background(), &model.Holiday{
		Session:   "2025-2026",
		Name:      "假期",
		StartDate: mustDate(t, "2025-01-06"),
		EndDate:   mustDate(t, "2025-01-06"),
		IsActive:  true,
	}); err != nil {
		t.Fatalf("写入测试假期失败: %v", err)
	}

	svc.OnTick(context.Background(), at(t, "08:15"))

	if _, _, ok := svc.EffectiveMode("I"); ok {
		t.Error("假期日不应解析出模式")
	}
}

func TestModeService_EffectiveMode_NoState(t *testing.T) {
	svc, _, _ := setupTestModeService()

	if _, _, ok := svc.EffectiveMode("I"); ok {
		t.Error("未tick过的班级不应有模式")
	}
}

// ── 手动固定测试 ──

func TestModeService_SetManual_PersistsAcrossTicks(t *testing.T) {
	svc, _, entryRepo := setupTestModeService()
	seedDayEntry(t, entryRepo, "I")

	if err := svc.SetManual("I", model.ModeLate); err != nil {
		t.Fatalf("SetManual 应成功: %v", err)
	}

	// 多次 tick 改变自动解析结果，手动固定不受影响
	for _, clock := range []string{"08:15", "10:00", "14:10"} {
		svc.OnTick(context.Background(), at(t, clock))
		mode, modeType, ok := svc.EffectiveMode("I")
		if !ok || mode != model.ModeLate || modeType != model.ModeTypeManual {
			t.Errorf("clock=%s 手动模式应保持(late,manual)，实际(%s,%s)", clock, mode, modeType)
		}
	}
}

func TestModeService_ResetToAuto(t *testing.T) {
	svc, _, entryRepo := setupTestModeService()
	seedDayEntry(t, entryRepo, "I")

	if err := svc.SetManual("I", model.ModeOut); err != nil {
		t.Fatalf("SetManual 应成功: %v", err)
	}
	svc.ResetToAuto("I")
	svc.OnTick(context.Background(), at(t, "08:15"))

	mode, modeType, ok := svc.EffectiveMode("I")
	if !ok || mode != model.ModeIn || modeType != model.ModeTypeAuto {
		t.Errorf("复位后期望(in,auto)，实际(%s,%s)", mode, modeType)
	}
}

func TestModeService_SetManual_InvalidMode(t *testing.T) {
	svc, _, _ := setupTestModeService()

	if err := svc.SetManual("I", "night"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("期望ErrInvalidMode，实际=%v", err)
	}
}

// ── Snapshot 测试 ──

func TestModeService_Snapshot(t *testing.T) {
	svc, _, entryRepo := setupTestModeService()
	seedDayEntry(t, entryRepo, "I")
	seedDayEntry(t, entryRepo, "II")

	svc.OnTick(context.Background(), at(t, "08:15"))
	if err := svc.SetManual("II", model.ModeOut); err != nil {
		t.Fatalf("SetManual 应成功: %v", err)
	}

	snapshot, err := svc.Snapshot(context.Background(), at(t, "08:15"))
	if err != nil {
		t.Fatalf("Snapshot 应成功: %v", err)
	}
	if len(snapshot) != 2 {
		t.Fatalf("期望2个班级，实际=%d", len(snapshot))
	}

	// 按班级名排序：I 自动，II 手动
	if snapshot[0].ClassName != "I" || snapshot[0].Mode != model.ModeIn || snapshot[0].ModeType != model.ModeTypeAuto {
		t.Errorf("I班快照不符: %+v", snapshot[0])
	}
	if snapshot[1].ClassName != "II" || snapshot[1].Mode != model.ModeOut || snapshot[1].ModeType != model.ModeTypeManual {
		t.Errorf("II班快照不符: %+v", snapshot[1])
	}
	if snapshot[0].InStart != "08:00" || snapshot[0].OutEnd != "15:00" {
		t.Errorf("快照应带今日窗口: %+v", snapshot[0])
	}
}
