package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/model"
	"rfid-attend/backend/internal/service"
	"rfid-attend/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock HolidayService ──

type mockHolidayService struct {
	createResult *dto.HolidayResponse
	createErr    error
	getResult    *dto.HolidayResponse
	getErr       error
	listResult   []dto.HolidayResponse
	listErr      error
	updateResult *dto.HolidayResponse
	updateErr    error
	deleteErr    error
}

func (m *mockHolidayService) Create(_ context.Context, _ *dto.CreateHolidayRequest) (*dto.HolidayResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockHolidayService) GetByID(_ context.Context, _ string) (*dto.HolidayResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockHolidayService) List(_ context.Context, _ *dto.HolidayListRequest) ([]dto.HolidayResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockHolidayService) Update(_ context.Context, _ string, _ *dto.UpdateHolidayRequest) (*dto.HolidayResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockHolidayService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockHolidayService) IsHoliday(_ context.Context, _ time.Time) (bool, error) {
	return false, nil
}

// ── Mock ScheduleService ──

type mockScheduleService struct {
	generateCount  int
	generateErr    error
	getResult      *dto.ScheduleEntryResponse
	getErr         error
	listResult     []dto.ScheduleEntryResponse
	listErr        error
	lookupResult   []dto.ScheduleEntryResponse
	lookupErr      error
	updateResult   *dto.ScheduleEntryResponse
	updateErr      error
	dupResult      *dto.ScheduleEntryResponse
	dupErr         error
	retargetResult *dto.ScheduleEntryResponse
	retargetErr    error
	deleteErr      error
	clearErr       error
}

func (m *mockScheduleService) GenerateAll(_ context.Context) (int, error) {
	return m.generateCount, m.generateErr
}
func (m *mockScheduleService) GetByID(_ context.Context, _ string) (*dto.ScheduleEntryResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockScheduleService) List(_ context.Context, _ *dto.ScheduleListRequest) ([]dto.ScheduleEntryResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockScheduleService) Lookup(_ context.Context, _, _ string) ([]dto.ScheduleEntryResponse, error) {
	return m.lookupResult, m.lookupErr
}
func (m *mockScheduleService) UpdateEntry(_ context.Context, _ string, _ *dto.UpdateEntryRequest) (*dto.ScheduleEntryResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockScheduleService) Duplicate(_ context.Context, _ string, _ *dto.DuplicateEntryRequest) (*dto.ScheduleEntryResponse, error) {
	return m.dupResult, m.dupErr
}
func (m *mockScheduleService) RetargetDuplicate(_ context.Context, _ string, _ *dto.RetargetDuplicateRequest) (*dto.ScheduleEntryResponse, error) {
	return m.retargetResult, m.retargetErr
}
func (m *mockScheduleService) DeleteDuplicate(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockScheduleService) Clear(_ context.Context) error {
	return m.clearErr
}
func (m *mockScheduleService) EntriesForDate(_ context.Context, _ time.Time) ([]model.ScheduleEntry, error) {
	return nil, nil
}

// ── Mock ModeService ──

type mockModeService struct {
	snapshotResult []dto.ClassModeResponse
	snapshotErr    error
	setManualErr   error
	resetCalled    bool
}

func (m *mockModeService) OnTick(_ context.Context, _ time.Time) {}
func (m *mockModeService) EffectiveMode(_ string) (string, string, bool) {
	return "", "", false
}
func (m *mockModeService) SetManual(_, _ string) error {
	return m.setManualErr
}
func (m *mockModeService) ResetToAuto(_ string) {
	m.resetCalled = true
}
func (m *mockModeService) Snapshot(_ context.Context, _ time.Time) ([]dto.ClassModeResponse, error) {
	return m.snapshotResult, m.snapshotErr
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	scanResult       *dto.ScanResult
	scanErr          error
	assignResult     *dto.AssignmentResponse
	assignErr        error
	autoAssignResult *dto.AssignmentResponse
	autoAssignErr    error
	unassignErr      error
	assignments      []dto.AssignmentResponse
	assignmentsErr   error
	students         []dto.StudentResponse
	studentsErr      error
}

func (m *mockAttendanceService) Scan(_ context.Context, _ string, _ time.Time) (*dto.ScanResult, error) {
	return m.scanResult, m.scanErr
}
func (m *mockAttendanceService) Assign(_ context.Context, _ *dto.AssignRfidRequest) (*dto.AssignmentResponse, error) {
	return m.assignResult, m.assignErr
}
func (m *mockAttendanceService) AutoAssign(_ context.Context, _ string, _ *dto.StudentListRequest) (*dto.AssignmentResponse, error) {
	return m.autoAssignResult, m.autoAssignErr
}
func (m *mockAttendanceService) Unassign(_ context.Context, _ string) error {
	return m.unassignErr
}
func (m *mockAttendanceService) ListAssignments(_ context.Context) ([]dto.AssignmentResponse, error) {
	return m.assignments, m.assignmentsErr
}
func (m *mockAttendanceService) ListStudents(_ context.Context, _ *dto.StudentListRequest) ([]dto.StudentResponse, error) {
	return m.students, m.studentsErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportSchedule(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportHolidays(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportReport(_ context.Context, _ *dto.ReportListRequest, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// HolidayHandler Tests
// ═══════════════════════════════════════════════════════════

func TestHolidayHandler_Create_Success(t *testing.T) {
	mock := &mockHolidayService{
		createResult: &dto.HolidayResponse{
			ID:   "hol-001",
			Name: "Winter Break",
		},
	}
	h := NewHolidayHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("POST", "/holidays", jsonBody(dto.CreateHolidayRequest{
		Session:   "2025-2026",
		Name:      "Winter Break",
		StartDate: "2025-01-20",
		EndDate:   "2025-02-10",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/holidays", h.CreateHoliday)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("期望 code 0，实际=%d", resp.Code)
	}
}

func TestHolidayHandler_Create_BadJSON(t *testing.T) {
	mock := &mockHolidayService{}
	h := NewHolidayHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("POST", "/holidays", bytes.NewReader([]byte("bad json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/holidays", h.CreateHoliday)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestHolidayHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrHolidayNotFound, 404, 11001},
		{"BadDateFormat", service.ErrInvalidDateFormat, 400, 11002},
		{"BadDateRange", service.ErrInvalidHolidayDate, 400, 11003},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockHolidayService{getErr: tt.err}
			h := NewHolidayHandler(mock)

			w := newRecorder()
			req := httptest.NewRequest("GET", "/holidays/hol-001", nil)

			r := gin.New()
			r.GET("/holidays/:id", h.GetHoliday)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("期望状态 %d，实际=%d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("期望 code %d，实际=%d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ScheduleHandler Tests
// ═══════════════════════════════════════════════════════════

func TestScheduleHandler_GenerateAll_Success(t *testing.T) {
	mock := &mockScheduleService{generateCount: 14}
	h := NewScheduleHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("POST", "/schedule/generate", nil)

	r := gin.New()
	r.POST("/schedule/generate", h.GenerateAll)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
}

func TestScheduleHandler_Lookup_MissingParams(t *testing.T) {
	mock := &mockScheduleService{}
	h := NewScheduleHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("GET", "/schedule/lookup?class_name=I", nil) // 缺 date

	r := gin.New()
	r.GET("/schedule/lookup", h.LookupEntries)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestScheduleHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"EntryNotFound", service.ErrEntryNotFound, 404, 13001},
		{"NotDuplicate", service.ErrEntryNotDuplicate, 400, 13002},
		{"BadDateFormat", service.ErrInvalidDateFormat, 400, 13003},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockScheduleService{deleteErr: tt.err}
			h := NewScheduleHandler(mock)

			w := newRecorder()
			req := httptest.NewRequest("DELETE", "/schedule/entry-0001", nil)

			r := gin.New()
			r.DELETE("/schedule/:id", h.DeleteDuplicate)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("期望状态 %d，实际=%d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("期望 code %d，实际=%d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ModeHandler Tests
// ═══════════════════════════════════════════════════════════

func TestModeHandler_SetManual_Success(t *testing.T) {
	mock := &mockModeService{}
	h := NewModeHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("PUT", "/modes/I", jsonBody(dto.SetModeRequest{Mode: "out"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/modes/:class", h.SetManual)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
}

func TestModeHandler_SetManual_InvalidMode(t *testing.T) {
	// binding oneof 校验直接拦下非法模式
	mock := &mockModeService{}
	h := NewModeHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("PUT", "/modes/I", jsonBody(map[string]string{"mode": "lunch"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/modes/:class", h.SetManual)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestModeHandler_Snapshot_Success(t *testing.T) {
	mock := &mockModeService{
		snapshotResult: []dto.ClassModeResponse{
			{ClassName: "I", Mode: "in", ModeType: "auto", Resolved: true},
		},
	}
	h := NewModeHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("GET", "/modes", nil)

	r := gin.New()
	r.GET("/modes", h.Snapshot)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAttendanceHandler_Scan_Success(t *testing.T) {
	mock := &mockAttendanceService{
		scanResult: &dto.ScanResult{
			Record: dto.ScanResponse{
				RecordID: "rec-0001",
				Rfid:     "CARD-001",
				Status:   "in",
			},
		},
	}
	h := NewAttendanceHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("POST", "/scan", jsonBody(dto.ScanRequest{Rfid: "CARD-001"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/scan", h.Scan)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("期望 code 0，实际=%d", resp.Code)
	}
}

func TestAttendanceHandler_Scan_BadJSON(t *testing.T) {
	mock := &mockAttendanceService{}
	h := NewAttendanceHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("POST", "/scan", bytes.NewReader([]byte("bad")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/scan", h.Scan)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestAttendanceHandler_Scan_RejectionMapping(t *testing.T) {
	// 刷卡拒绝走 HTTP 200 + 业务码，刷卡机只看 code 和 message
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"Holiday", service.ErrHolidayToday, 15001},
		{"NoSchedule", service.ErrNoScheduleToday, 15002},
		{"UnknownRfid", service.ErrUnknownRfid, 15003},
		{"ClassNotScheduled", service.ErrClassNotScheduled, 15004},
		{"DayOff", service.ErrDayOff, 15005},
		{"OutOfWindow", service.ErrOutOfWindow, 15006},
		{"AlreadyInside", service.ErrAlreadyInside, 15007},
		{"AlreadyOutside", service.ErrAlreadyOutside, 15008},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAttendanceService{scanErr: tt.err}
			h := NewAttendanceHandler(mock)

			w := newRecorder()
			req := httptest.NewRequest("POST", "/scan", jsonBody(dto.ScanRequest{Rfid: "CARD-001"}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/scan", h.Scan)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("期望 200，实际=%d", w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("期望 code %d，实际=%d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAttendanceHandler_Assign_Conflict(t *testing.T) {
	mock := &mockAttendanceService{assignErr: service.ErrRfidTaken}
	h := NewAttendanceHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("POST", "/assignments", jsonBody(dto.AssignRfidRequest{
		UID:  "stu-001",
		Rfid: "CARD-001",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments", h.AssignRfid)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 16002 {
		t.Errorf("期望 code 16002，实际=%d", resp.Code)
	}
}

func TestAttendanceHandler_AutoAssign_MissingRfid(t *testing.T) {
	mock := &mockAttendanceService{}
	h := NewAttendanceHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("POST", "/assignments/auto", nil)

	r := gin.New()
	r.POST("/assignments/auto", h.AutoAssignRfid)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Schedule_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("csv content"),
		filename: "schedule_2025-01-06.csv",
	}
	h := NewExportHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("GET", "/export/schedule?format=csv", nil)

	r := gin.New()
	r.GET("/export/schedule", h.ExportSchedule)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type 不符，实际=%s", ct)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("缺少 Content-Disposition 头")
	}
}

func TestExportHandler_UnsupportedFormat(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportFormat}
	h := NewExportHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("GET", "/export/schedule?format=pdf", nil)

	r := gin.New()
	r.GET("/export/schedule", h.ExportSchedule)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 18002 {
		t.Errorf("期望 code 18002，实际=%d", resp.Code)
	}
}

func TestExportHandler_NoData(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoData}
	h := NewExportHandler(mock)

	w := newRecorder()
	req := httptest.NewRequest("GET", "/export/holidays", nil)

	r := gin.New()
	r.GET("/export/holidays", h.ExportHolidays)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}
