package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/cache"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/repository"
)

const (
	statsCacheTTL = 30 * time.Second
	weeklyDays    = 7
	dayFormat     = "2006-01-02"
)

// TaskStats holds the dashboard summary counters.
type TaskStats struct {
	Total          int64 `json:"total"`
	Completed      int64 `json:"completed"`
	Pending        int64 `json:"pending"`
	Overdue        int64 `json:"overdue"`
	CompletionRate int   `json:"completionRate"`
}

// DayCount is one weekly histogram bucket.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// CategoryStat is the per-category task count for the dashboard.
type CategoryStat struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int64  `json:"count"`
}

// StatsSummary is the full stats endpoint payload.
type StatsSummary struct {
	Stats         TaskStats      `json:"stats"`
	WeeklyData    []DayCount     `json:"weeklyData"`
	CategoryStats []CategoryStat `json:"categoryStats"`
}

// StatsService derives dashboard aggregates for a user.
type StatsService interface {
	Summary(ctx context.Context, userID uint) (*StatsSummary, error)
}

type statsService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
	now          func() time.Time
}

// NewStatsService creates a new stats service.
func NewStatsService(taskRepo repository.TaskRepository, categoryRepo repository.CategoryRepository, cacheClient *cache.Client) StatsService {
	return &statsService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		cache:        cacheClient,
		now:          time.Now,
	}
}

// Summary computes totals, the trailing 7-day creation histogram and
// per-category counts. The five underlying queries are read-only and
// independent, so they fan out concurrently. Results are cached briefly;
// every task/category mutation invalidates the cache key.
func (s *statsService) Summary(ctx context.Context, userID uint) (*StatsSummary, error) {
	cacheKey := statsCacheKey(userID)
	if data, _ := s.cache.Get(ctx, cacheKey); data != nil {
		var cached StatsSummary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	now := s.now()
	weekStart := startOfDay(now).AddDate(0, 0, -(weeklyDays - 1))

	var (
		total, completed, overdue int64
		perDay                    map[string]int64
		categories                []model.CategoryWithCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.taskRepo.CountByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		completed, err = s.taskRepo.CountCompleted(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		overdue, err = s.taskRepo.CountOverdue(gctx, userID, now)
		return err
	})
	g.Go(func() (err error) {
		perDay, err = s.taskRepo.CountCreatedPerDay(gctx, userID, weekStart)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.categoryRepo.ListWithCounts(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}

	summary := &StatsSummary{
		Stats: TaskStats{
			Total:          total,
			Completed:      completed,
			Pending:        total - completed,
			Overdue:        overdue,
			CompletionRate: completionRate(completed, total),
		},
		WeeklyData:    buildWeeklyData(perDay, now),
		CategoryStats: buildCategoryStats(categories),
	}

	if data, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, cacheKey, data, statsCacheTTL)
	}

	return summary, nil
}

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

// completionRate rounds to the nearest integer percentage; zero tasks is 0,
// not a division by zero.
func completionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// buildWeeklyData produces exactly 7 buckets, oldest first, today last.
// Days without tasks stay present with count 0. Buckets are keyed on local
// calendar days so a boundary timestamp lands in exactly one bucket.
func buildWeeklyData(perDay map[string]int64, now time.Time) []DayCount {
	days := make([]DayCount, 0, weeklyDays)
	start := startOfDay(now).AddDate(0, 0, -(weeklyDays - 1))
	for i := 0; i < weeklyDays; i++ {
		date := start.AddDate(0, 0, i).Format(dayFormat)
		days = append(days, DayCount{Date: date, Count: perDay[date]})
	}
	return days
}

func buildCategoryStats(categories []model.CategoryWithCount) []CategoryStat {
	stats := make([]CategoryStat, 0, len(categories))
	for _, c := range categories {
		stats = append(stats, CategoryStat{
			Name:  c.Name,
			Color: c.Color,
			Count: c.TaskCount,
		})
	}
	return stats
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Local().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
