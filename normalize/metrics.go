package normalize

import (
	"math"
	"time"

	"github.com/nijaru/yt-research/models"
)

const notAvailable = "N/A"

// Performance derives views per day and engagement rate. Elapsed time is
// floored at one day; engagement is 0 when there are no views. An unknown
// upload time counts as uploaded now.
func Performance(views, likes, comments int64, uploadedAt, now time.Time) models.PerformanceMetrics {
	days := 1.0
	if !uploadedAt.IsZero() {
		days = math.Max(1, now.Sub(uploadedAt).Hours()/24)
	}

	var engagement float64
	if views > 0 {
		engagement = float64(likes+comments) / float64(views) * 100
		engagement = math.Round(engagement*100) / 100
	}

	return models.PerformanceMetrics{
		ViewsPerDay:         int64(math.Round(float64(views) / days)),
		EngagementRate:      engagement,
		WatchTimePercentage: notAvailable,
	}
}

// Schedule describes when a video went out. Only the weekday is known.
func Schedule(uploadedAt time.Time) models.PublishingSchedule {
	return models.PublishingSchedule{
		DayOfWeek:  DayOfWeek(uploadedAt),
		TimePosted: Unknown,
		Frequency:  notAvailable,
	}
}
