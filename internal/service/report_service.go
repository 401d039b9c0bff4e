package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rfid-attend/backend/internal/dto"
	"rfid-attend/backend/internal/model"
	"rfid-attend/backend/internal/repository"
)

// ReportService 考勤报表业务接口
type ReportService interface {
	// Records 按条件分页列出原始流水，返回当页数据与过滤后总数
	Records(ctx context.Context, req *dto.ReportListRequest) ([]dto.AttendanceRecordResponse, int64, error)
	Summary(ctx context.Context, req *dto.ReportListRequest) (*dto.ReportSummaryResponse, error)
	// Daily 日报表：每名已绑定学生一行，含首次进出时间与出勤状态
	Daily(ctx context.Context, req *dto.ReportListRequest) ([]dto.ReportRowResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// resolveRange 解析查询区间，左闭右开。单日优先于区间，都缺省时取今天
func resolveRange(req *dto.ReportListRequest) (time.Time, time.Time, error) {
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return d, d.AddDate(0, 0, 1), nil
	}
	if req.FromDate != "" || req.ToDate != "" {
		from, err := parseDate(req.FromDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to, err := parseDate(req.ToDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return from, to.AddDate(0, 0, 1), nil
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today, today.AddDate(0, 0, 1), nil
}

// matchRecord 班级 / 分部 / 模式 / 状态过滤
func matchRecord(r *model.AttendanceRecord, req *dto.ReportListRequest) bool {
	if req.ClassName != "" && r.ClassName != req.ClassName {
		return false
	}
	if req.Section != "" && r.Section != req.Section {
		return false
	}
	if req.Mode != "" && r.Mode != req.Mode {
		return false
	}
	if req.Status != "" && r.Status != req.Status {
		return false
	}
	return true
}

// ────────────────────── Records ──────────────────────

func (s *reportService) Records(ctx context.Context, req *dto.ReportListRequest) ([]dto.AttendanceRecordResponse, int64, error) {
	from, to, err := resolveRange(req)
	if err != nil {
		return nil, 0, err
	}
	records, err := s.repo.AttendanceRecord.ListBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("查询考勤流水失败", zap.Error(err))
		return nil, 0, err
	}

	matched := make([]*model.AttendanceRecord, 0, len(records))
	for i := range records {
		if matchRecord(&records[i], req) {
			matched = append(matched, &records[i])
		}
	}

	total := int64(len(matched))
	offset := req.GetOffset()
	if offset >= len(matched) {
		return []dto.AttendanceRecordResponse{}, total, nil
	}
	end := offset + req.GetPageSize()
	if end > len(matched) {
		end = len(matched)
	}

	result := make([]dto.AttendanceRecordResponse, 0, end-offset)
	for _, r := range matched[offset:end] {
		result = append(result, *toRecordResponse(r))
	}
	return result, total, nil
}

// ────────────────────── Summary ──────────────────────

func (s *reportService) Summary(ctx context.Context, req *dto.ReportListRequest) (*dto.ReportSummaryResponse, error) {
	from, to, err := resolveRange(req)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.AttendanceRecord.ListBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("查询考勤流水失败", zap.Error(err))
		return nil, err
	}

	summary := &dto.ReportSummaryResponse{}
	for i := range records {
		r := &records[i]
		if !matchRecord(r, req) {
			continue
		}
		summary.Total++
		switch r.Status {
		case model.ModeIn:
			summary.In++
		case model.ModeLate:
			summary.Late++
		case model.ModeOut:
			summary.Out++
		}
		switch r.Timeliness {
		case model.TimelinessEarly:
			summary.Early++
		case model.TimelinessOnTime:
			summary.OnTime++
		case model.TimelinessLate:
			summary.LateFor++
		}
	}
	return summary, nil
}

// ────────────────────── Daily ──────────────────────

func (s *reportService) Daily(ctx context.Context, req *dto.ReportListRequest) ([]dto.ReportRowResponse, error) {
	from, to, err := resolveRange(req)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.RfidAssignment.List(ctx)
	if err != nil {
		s.logger.Error("列出绑定失败", zap.Error(err))
		return nil, err
	}
	records, err := s.repo.AttendanceRecord.ListBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("查询考勤流水失败", zap.Error(err))
		return nil, err
	}

	// 每名学生首次进校与首次离校（记录按 scan_time 升序）
	firstIn := make(map[string]string)
	firstOut := make(map[string]string)
	scanned := make(map[string]bool)
	for i := range records {
		r := &records[i]
		scanned[r.StudentUID] = true
		if r.Inside() {
			if _, ok := firstIn[r.StudentUID]; !ok {
				firstIn[r.StudentUID] = r.ScanClock
			}
		} else if _, ok := firstOut[r.StudentUID]; !ok {
			firstOut[r.StudentUID] = r.ScanClock
		}
	}

	result := make([]dto.ReportRowResponse, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		student := a.Student
		if student == nil {
			continue
		}
		if req.Session != "" && student.Session != req.Session {
			continue
		}
		if req.ClassName != "" && student.ClassName != req.ClassName {
			continue
		}
		if req.Section != "" && student.Section != req.Section {
			continue
		}

		status := "Absent"
		if scanned[student.UID] {
			status = "Present"
		}
		result = append(result, dto.ReportRowResponse{
			UID:       student.UID,
			Name:      student.Name,
			ClassName: student.ClassName,
			Section:   student.Section,
			Roll:      student.Roll,
			Rfid:      a.Rfid,
			InTime:    firstIn[student.UID],
			OutTime:   firstOut[student.UID],
			Status:    status,
		})
	}
	return result, nil
}
