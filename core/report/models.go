package report

import "time"

// Stats are the aggregate figures shown on the dashboard and settings pages.
type Stats struct {
	TotalStudents      int
	TotalResults       int
	TotalAnnouncements int
	AverageScore       int // rounded mean percentage; 0 when there are no results
}

// Activity kinds
const (
	KindStudent      = "student"
	KindResult       = "result"
	KindAnnouncement = "announcement"
)

// Activity is one entry of the dashboard's recent activity feed.
type Activity struct {
	Kind        string
	Description string
	CreatedAt   time.Time
}

func (a Activity) Icon() string {
	switch a.Kind {
	case KindStudent:
		return "user-plus"
	case KindResult:
		return "chart-bar"
	case KindAnnouncement:
		return "bullhorn"
	}
	return "circle"
}

func (a Activity) Color() string {
	switch a.Kind {
	case KindStudent:
		return "primary"
	case KindResult:
		return "success"
	case KindAnnouncement:
		return "warning"
	}
	return "secondary"
}
