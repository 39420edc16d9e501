package usecase

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	dashboardDays   = 7
	exportRowLimit  = 5000
	exportSheetName = "Results"
)

var scoreBuckets = []string{"0-1", "1-2", "2-3", "3-4", "4-5"}

type analyticsUsecase struct {
	repo domain.AnalyticsRepository
	now  func() time.Time
}

func NewAnalyticsUsecase(repo domain.AnalyticsRepository, clock func() time.Time) domain.AnalyticsUsecase {
	if clock == nil {
		clock = time.Now
	}
	return &analyticsUsecase{repo: repo, now: clock}
}

func (u *analyticsUsecase) GetRecruiterDashboard(ctx context.Context, actor domain.Actor) (*domain.RecruiterAnalytics, error) {
	counts, err := u.repo.GetRecruiterCounts(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recruiter counts: %w", err)
	}

	out := &domain.RecruiterAnalytics{
		TotalCandidates:     counts.DistinctCandidates,
		PendingInterviews:   counts.ByStatus[domain.InterviewStatusPending],
		InProgress:          counts.ByStatus[domain.InterviewStatusInProgress],
		CompletedInterviews: counts.ByStatus[domain.InterviewStatusCompleted],
		ExpiredInterviews:   counts.ByStatus[domain.InterviewStatusExpired],
		AvgCompletionTime:   math.Round(counts.AvgCompletionMinutes*10) / 10,
	}

	total := out.PendingInterviews + out.InProgress + out.CompletedInterviews + out.ExpiredInterviews
	if total > 0 {
		out.CompletionRate = math.Round(float64(out.CompletedInterviews)/float64(total)*1000) / 10
	}

	today := u.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(dashboardDays - 1))
	activity, err := u.repo.ListActivitySince(ctx, actor.UserID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview activity: %w", err)
	}
	out.InterviewsByDay = interviewsByDay(activity, since)

	scores, err := u.repo.ListOverallScores(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}
	out.ScoresDistribution = scoreDistribution(scores)

	return out, nil
}

func interviewsByDay(activity []domain.InterviewActivity, since time.Time) domain.ChartData {
	labels := make([]string, dashboardDays)
	for i := range labels {
		labels[i] = since.AddDate(0, 0, i).Format("Mon")
	}

	completed := make([]int, dashboardDays)
	scheduled := make([]int, dashboardDays)
	for _, a := range activity {
		day := int(a.CreatedAt.UTC().Sub(since).Hours() / 24)
		if day < 0 || day >= dashboardDays {
			continue
		}
		if a.Status == domain.InterviewStatusCompleted {
			completed[day]++
		} else {
			scheduled[day]++
		}
	}

	return domain.ChartData{
		Labels: labels,
		Datasets: []domain.ChartDataset{
			{Label: "Completed", Data: completed},
			{Label: "Scheduled", Data: scheduled},
		},
	}
}

func scoreDistribution(scores []float64) domain.ChartData {
	counts := make([]int, len(scoreBuckets))
	for _, s := range scores {
		idx := int(s)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(counts) {
			idx = len(counts) - 1
		}
		counts[idx]++
	}
	return domain.ChartData{
		Labels:   scoreBuckets,
		Datasets: []domain.ChartDataset{{Label: "Candidates", Data: counts}},
	}
}

// ExportResults writes the recruiter's interviews and verdicts to an Excel workbook.
func (u *analyticsUsecase) ExportResults(ctx context.Context, actor domain.Actor) ([]byte, string, error) {
	rows, err := u.repo.ListResults(ctx, actor.UserID, exportRowLimit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load results: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", exportSheetName)

	headers := []string{
		"INTERVIEW ID", "CANDIDATE", "EMAIL", "TEMPLATE", "STATUS",
		"STARTED AT", "COMPLETED AT", "OVERALL SCORE", "RECOMMENDATION",
		"STRENGTHS", "WEAKNESSES",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#0284C7"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(exportSheetName, "A1", endCell, headerStyle)

	for r, row := range rows {
		values := []interface{}{
			row.InterviewID,
			row.CandidateName,
			row.CandidateEmail,
			row.TemplateTitle,
			row.Status,
			formatTime(row.StartedAt),
			formatTime(row.CompletedAt),
			"",
			"",
			strings.Join(row.Strengths, "; "),
			strings.Join(row.Weaknesses, "; "),
		}
		if row.OverallScore != nil {
			values[7] = *row.OverallScore
		}
		if row.Recommendation != nil {
			values[8] = *row.Recommendation
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(exportSheetName, cell, v)
		}
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheetName, col, col, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("interview_results_%s.xlsx", u.now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
