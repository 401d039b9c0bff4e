package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"rfid-attend/backend/internal/model"
	"rfid-attend/backend/internal/repository"
)

// newTestRepository 全量 mock 仓库聚合
func newTestRepository() (*repository.Repository, *mockHolidayRepo, *mockSetupRepo, *mockScheduleEntryRepo, *mockStudentRepo, *mockRfidAssignmentRepo, *mockAttendanceRecordRepo) {
	holiday := newMockHolidayRepo()
	setup := newMockSetupRepo()
	entry := newMockScheduleEntryRepo()
	student := newMockStudentRepo()
	assignment := newMockRfidAssignmentRepo(student)
	record := newMockAttendanceRecordRepo()
	repo := &repository.Repository{
		Holiday:          holiday,
		Setup:            setup,
		ScheduleEntry:    entry,
		Student:          student,
		RfidAssignment:   assignment,
		AttendanceRecord: record,
	}
	return repo, holiday, setup, entry, student, assignment, record
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	holidays map[string]*model.Holiday
	seq      int
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{holidays: make(map[string]*model.Holiday)}
}

func (m *mockHolidayRepo) Create(_ context.Context, holiday *model.Holiday) error {
	if holiday.HolidayID == "" {
		m.seq++
		holiday.HolidayID = fmt.Sprintf("hol-%03d", m.seq)
	}
	m.holidays[holiday.HolidayID] = holiday
	return nil
}

func (m *mockHolidayRepo) GetByID(_ context.Context, id string) (*model.Holiday, error) {
	if h, ok := m.holidays[id]; ok {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHolidayRepo) List(_ context.Context) ([]model.Holiday, error) {
	result := make([]model.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result, nil
}

func (m *mockHolidayRepo) ListActive(ctx context.Context) ([]model.Holiday, error) {
	all, _ := m.List(ctx)
	result := make([]model.Holiday, 0, len(all))
	for _, h := range all {
		if h.IsActive {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *mockHolidayRepo) Update(_ context.Context, holiday *model.Holiday) error {
	m.holidays[holiday.HolidayID] = holiday
	return nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, id string) error {
	delete(m.holidays, id)
	return nil
}

// ── Mock SetupRepository ──

type mockSetupRepo struct {
	setups map[string]*model.Setup
	seq    int
}

func newMockSetupRepo() *mockSetupRepo {
	return &mockSetupRepo{setups: make(map[string]*model.Setup)}
}

func (m *mockSetupRepo) Create(_ context.Context, setup *model.Setup) error {
	if setup.SetupID == "" {
		m.seq++
		setup.SetupID = fmt.Sprintf("setup-%03d", m.seq)
	}
	setup.CreatedAt = time.Now()
	m.setups[setup.SetupID] = setup
	return nil
}

func (m *mockSetupRepo) GetByID(_ context.Context, id string) (*model.Setup, error) {
	if s, ok := m.setups[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSetupRepo) List(_ context.Context) ([]model.Setup, error) {
	result := make([]model.Setup, 0, len(m.setups))
	for _, s := range m.setups {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockSetupRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.setups)), nil
}

func (m *mockSetupRepo) Update(_ context.Context, setup *model.Setup) error {
	if existing, ok := m.setups[setup.SetupID]; ok {
		// Save 不触达关联，规则沿用已存副本
		if setup.Rules == nil {
			setup.Rules = existing.Rules
		}
	}
	m.setups[setup.SetupID] = setup
	return nil
}

func (m *mockSetupRepo) Delete(_ context.Context, id string) error {
	delete(m.setups, id)
	return nil
}

func (m *mockSetupRepo) DeleteAll(_ context.Context) error {
	m.setups = make(map[string]*model.Setup)
	return nil
}

func (m *mockSetupRepo) ReplaceRules(_ context.Context, setupID string, rules []model.SetupRule) error {
	s, ok := m.setups[setupID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range rules {
		if rules[i].RuleID == "" {
			rules[i].RuleID = fmt.Sprintf("rule-%s-%d", setupID, rules[i].DayIndex)
		}
	}
	s.Rules = rules
	return nil
}

func (m *mockSetupRepo) SaveRules(_ context.Context, rules []model.SetupRule) error {
	for i := range rules {
		s, ok := m.setups[rules[i].SetupID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		for j := range s.Rules {
			if s.Rules[j].RuleID == rules[i].RuleID {
				s.Rules[j] = rules[i]
			}
		}
	}
	return nil
}

// ── Mock ScheduleEntryRepository ──

type mockScheduleEntryRepo struct {
	entries map[string]*model.ScheduleEntry
	seq     int
}

func newMockScheduleEntryRepo() *mockScheduleEntryRepo {
	return &mockScheduleEntryRepo{entries: make(map[string]*model.ScheduleEntry)}
}

func (m *mockScheduleEntryRepo) Create(_ context.Context, entry *model.ScheduleEntry) error {
	if entry.EntryID == "" {
		m.seq++
		entry.EntryID = fmt.Sprintf("entry-%04d", m.seq)
	}
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockScheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	if e, ok := m.entries[id]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) sorted(filter func(*model.ScheduleEntry) bool) []model.ScheduleEntry {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if filter(e) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := &result[i], &result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.ClassName != b.ClassName {
			return a.ClassName < b.ClassName
		}
		return !a.IsDuplicated && b.IsDuplicated
	})
	return result
}

func (m *mockScheduleEntryRepo) List(_ context.Context, filter repository.ScheduleEntryFilter) ([]model.ScheduleEntry, error) {
	return m.sorted(func(e *model.ScheduleEntry) bool {
		if filter.SetupID != "" && e.SetupID != filter.SetupID {
			return false
		}
		if filter.ClassName != "" && e.ClassName != filter.ClassName {
			return false
		}
		if filter.Date != "" && e.DateString() != filter.Date {
			return false
		}
		return true
	}), nil
}

func (m *mockScheduleEntryRepo) ListByDate(_ context.Context, date string) ([]model.ScheduleEntry, error) {
	return m.sorted(func(e *model.ScheduleEntry) bool {
		return e.DateString() == date
	}), nil
}

func (m *mockScheduleEntryRepo) ListByClassAndDate(_ context.Context, className, date string) ([]model.ScheduleEntry, error) {
	return m.sorted(func(e *model.ScheduleEntry) bool {
		return e.ClassName == className && e.DateString() == date
	}), nil
}

func (m *mockScheduleEntryRepo) ListDuplicated(_ context.Context) ([]model.ScheduleEntry, error) {
	return m.sorted(func(e *model.ScheduleEntry) bool {
		return e.IsDuplicated
	}), nil
}

func (m *mockScheduleEntryRepo) Update(_ context.Context, entry *model.ScheduleEntry) error {
	if _, ok := m.entries[entry.EntryID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockScheduleEntryRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

func (m *mockScheduleEntryRepo) ReplaceGenerated(ctx context.Context, entries []model.ScheduleEntry, dropIDs []string) error {
	for id, e := range m.entries {
		if !e.IsDuplicated {
			delete(m.entries, id)
		}
	}
	for _, id := range dropIDs {
		delete(m.entries, id)
	}
	for i := range entries {
		if err := m.Create(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockScheduleEntryRepo) Clear(_ context.Context) error {
	m.entries = make(map[string]*model.ScheduleEntry)
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) add(s *model.Student) {
	m.students[s.UID] = s
}

func (m *mockStudentRepo) GetByUID(_ context.Context, uid string) (*model.Student, error) {
	if s, ok := m.students[uid]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, filter repository.StudentFilter) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if filter.ClassName != "" && s.ClassName != filter.ClassName {
			continue
		}
		if filter.Section != "" && s.Section != filter.Section {
			continue
		}
		if filter.Session != "" && s.Session != filter.Session {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(s.Name), needle) &&
				!strings.Contains(strings.ToLower(s.Roll), needle) &&
				!strings.Contains(strings.ToLower(s.Adm), needle) {
				continue
			}
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := &result[i], &result[j]
		if a.ClassName != b.ClassName {
			return a.ClassName < b.ClassName
		}
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		return a.Roll < b.Roll
	})
	return result, nil
}

func (m *mockStudentRepo) distinct(pick func(*model.Student) string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range m.students {
		v := pick(s)
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	sort.Strings(result)
	return result
}

func (m *mockStudentRepo) DistinctClasses(_ context.Context) ([]string, error) {
	return m.distinct(func(s *model.Student) string { return s.ClassName }), nil
}

func (m *mockStudentRepo) DistinctSections(_ context.Context) ([]string, error) {
	return m.distinct(func(s *model.Student) string { return s.Section }), nil
}

func (m *mockStudentRepo) DistinctSessions(_ context.Context) ([]string, error) {
	return m.distinct(func(s *model.Student) string { return s.Session }), nil
}

// ── Mock RfidAssignmentRepository ──

type mockRfidAssignmentRepo struct {
	assignments map[string]*model.RfidAssignment // uid → assignment
	students    *mockStudentRepo
}

func newMockRfidAssignmentRepo(students *mockStudentRepo) *mockRfidAssignmentRepo {
	return &mockRfidAssignmentRepo{
		assignments: make(map[string]*model.RfidAssignment),
		students:    students,
	}
}

func (m *mockRfidAssignmentRepo) withStudent(a *model.RfidAssignment) *model.RfidAssignment {
	clone := *a
	if s, ok := m.students.students[a.UID]; ok {
		clone.Student = s
	}
	return &clone
}

func (m *mockRfidAssignmentRepo) GetByRfid(_ context.Context, rfid string) (*model.RfidAssignment, error) {
	for _, a := range m.assignments {
		if a.Rfid == rfid {
			return m.withStudent(a), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRfidAssignmentRepo) GetByUID(_ context.Context, uid string) (*model.RfidAssignment, error) {
	if a, ok := m.assignments[uid]; ok {
		return m.withStudent(a), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRfidAssignmentRepo) List(_ context.Context) ([]model.RfidAssignment, error) {
	result := make([]model.RfidAssignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		result = append(result, *m.withStudent(a))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UID < result[j].UID
	})
	return result, nil
}

func (m *mockRfidAssignmentRepo) ExistsRfid(_ context.Context, rfid string) (bool, error) {
	for _, a := range m.assignments {
		if a.Rfid == rfid {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRfidAssignmentRepo) Upsert(_ context.Context, assignment *model.RfidAssignment) error {
	assignment.UpdatedAt = time.Now()
	m.assignments[assignment.UID] = assignment
	return nil
}

func (m *mockRfidAssignmentRepo) DeleteByUID(_ context.Context, uid string) error {
	if _, ok := m.assignments[uid]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, uid)
	return nil
}

func (m *mockRfidAssignmentRepo) DistinctClasses(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for uid := range m.assignments {
		if s, ok := m.students.students[uid]; ok && !seen[s.ClassName] {
			seen[s.ClassName] = true
			result = append(result, s.ClassName)
		}
	}
	sort.Strings(result)
	return result, nil
}

// ── Mock AttendanceRecordRepository ──

type mockAttendanceRecordRepo struct {
	records []model.AttendanceRecord
	seq     int
}

func newMockAttendanceRecordRepo() *mockAttendanceRecordRepo {
	return &mockAttendanceRecordRepo{}
}

func (m *mockAttendanceRecordRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	if record.RecordID == "" {
		m.seq++
		record.RecordID = fmt.Sprintf("rec-%04d", m.seq)
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *mockAttendanceRecordRepo) filter(match func(*model.AttendanceRecord) bool) []model.AttendanceRecord {
	var result []model.AttendanceRecord
	for i := range m.records {
		if match(&m.records[i]) {
			result = append(result, m.records[i])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScanTime.Before(result[j].ScanTime)
	})
	return result
}

func (m *mockAttendanceRecordRepo) ListByRfidBetween(_ context.Context, rfid string, from, to time.Time) ([]model.AttendanceRecord, error) {
	return m.filter(func(r *model.AttendanceRecord) bool {
		return r.Rfid == rfid && !r.ScanTime.Before(from) && r.ScanTime.Before(to)
	}), nil
}

func (m *mockAttendanceRecordRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.AttendanceRecord, error) {
	return m.filter(func(r *model.AttendanceRecord) bool {
		return !r.ScanTime.Before(from) && r.ScanTime.Before(to)
	}), nil
}

func (m *mockAttendanceRecordRepo) ListAll(_ context.Context) ([]model.AttendanceRecord, error) {
	return m.filter(func(*model.AttendanceRecord) bool { return true }), nil
}
