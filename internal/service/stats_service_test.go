package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed int64
		total     int64
		expected  int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, completionRate(tt.completed, tt.total),
			"completed=%d total=%d", tt.completed, tt.total)
	}
}

func TestBuildWeeklyData(t *testing.T) {
	now := time.Date(2025, 6, 15, 23, 59, 59, 0, time.Local)

	t.Run("seven zero-filled buckets, oldest first, today last", func(t *testing.T) {
		days := buildWeeklyData(map[string]int64{}, now)

		assert.Len(t, days, 7)
		assert.Equal(t, "2025-06-09", days[0].Date)
		assert.Equal(t, "2025-06-15", days[6].Date)
		for i, day := range days {
			assert.Equal(t, int64(0), day.Count)
			if i > 0 {
				prev, _ := time.Parse("2006-01-02", days[i-1].Date)
				cur, _ := time.Parse("2006-01-02", day.Date)
				assert.Equal(t, 24*time.Hour, cur.Sub(prev))
			}
		}
	})

	t.Run("counts land in their day", func(t *testing.T) {
		days := buildWeeklyData(map[string]int64{
			"2025-06-09": 2,
			"2025-06-15": 5,
		}, now)

		assert.Equal(t, int64(2), days[0].Count)
		assert.Equal(t, int64(5), days[6].Count)
		assert.Equal(t, int64(0), days[3].Count)
	})

	t.Run("days outside the window are dropped", func(t *testing.T) {
		days := buildWeeklyData(map[string]int64{"2025-06-01": 9}, now)
		for _, day := range days {
			assert.Equal(t, int64(0), day.Count)
		}
	})
}

func TestStatsService_Summary(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	mockTasks := new(MockTaskRepository)
	mockCategories := new(MockCategoryRepository)

	mockTasks.On("CountByUser", mock.Anything, uint(7)).Return(int64(4), nil)
	mockTasks.On("CountCompleted", mock.Anything, uint(7)).Return(int64(1), nil)
	mockTasks.On("CountOverdue", mock.Anything, uint(7), now).Return(int64(2), nil)
	mockTasks.On("CountCreatedPerDay", mock.Anything, uint(7), mock.Anything).Return(map[string]int64{
		"2025-06-15": 4,
	}, nil)
	mockCategories.On("ListWithCounts", mock.Anything, uint(7)).Return([]model.CategoryWithCount{
		{Category: model.Category{Name: "Work", Color: "#ff0000"}, TaskCount: 3},
		{Category: model.Category{Name: "Home", Color: "#00ff00"}, TaskCount: 0},
	}, nil)

	svc := &statsService{
		taskRepo:     mockTasks,
		categoryRepo: mockCategories,
		now:          func() time.Time { return now },
	}

	summary, err := svc.Summary(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), summary.Stats.Total)
	assert.Equal(t, int64(1), summary.Stats.Completed)
	assert.Equal(t, int64(3), summary.Stats.Pending)
	assert.Equal(t, int64(2), summary.Stats.Overdue)
	assert.Equal(t, 25, summary.Stats.CompletionRate)

	assert.Len(t, summary.WeeklyData, 7)
	assert.Equal(t, "2025-06-15", summary.WeeklyData[6].Date)
	assert.Equal(t, int64(4), summary.WeeklyData[6].Count)

	assert.Equal(t, []CategoryStat{
		{Name: "Work", Color: "#ff0000", Count: 3},
		{Name: "Home", Color: "#00ff00", Count: 0},
	}, summary.CategoryStats)

	mockTasks.AssertExpectations(t)
	mockCategories.AssertExpectations(t)
}
