package report

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"golang.org/x/sync/errgroup"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/announcement"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
)

type (
	Repository interface {
		CountStudents(ctx context.Context, exec ...core.DBExecutor) (int, error)
		CountResults(ctx context.Context, exec ...core.DBExecutor) (int, error)
		CountAnnouncements(ctx context.Context, exec ...core.DBExecutor) (int, error)
		// AverageScore is the mean of marks/total_marks*100 over results with total_marks > 0.
		AverageScore(ctx context.Context, exec ...core.DBExecutor) (null.Float64, error)

		RecentStudents(ctx context.Context, limit int, exec ...core.DBExecutor) ([]student.Student, error)
		RecentResults(ctx context.Context, limit int, exec ...core.DBExecutor) ([]result.Result, error)
		RecentAnnouncements(ctx context.Context, limit int, exec ...core.DBExecutor) ([]announcement.Announcement, error)
	}

	Reporter struct {
		repo Repository
	}
)

func NewReporter(repo Repository) *Reporter {
	return &Reporter{repo: repo}
}

// Dashboard runs the four aggregate queries concurrently and returns once all of them are done.
func (r *Reporter) Dashboard(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		avg   null.Float64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalStudents, err = r.repo.CountStudents(ctx)
		return errors.Wrap(err, "counting students")
	})
	g.Go(func() (err error) {
		stats.TotalResults, err = r.repo.CountResults(ctx)
		return errors.Wrap(err, "counting results")
	})
	g.Go(func() (err error) {
		stats.TotalAnnouncements, err = r.repo.CountAnnouncements(ctx)
		return errors.Wrap(err, "counting announcements")
	})
	g.Go(func() (err error) {
		avg, err = r.repo.AverageScore(ctx)
		return errors.Wrap(err, "averaging scores")
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	stats.AverageScore = roundScore(avg)
	return stats, nil
}

// Summary returns the record counts only.
func (r *Reporter) Summary(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.TotalStudents, err = r.repo.CountStudents(ctx); err != nil {
		return Stats{}, errors.Wrap(err, "counting students")
	}
	if stats.TotalResults, err = r.repo.CountResults(ctx); err != nil {
		return Stats{}, errors.Wrap(err, "counting results")
	}
	if stats.TotalAnnouncements, err = r.repo.CountAnnouncements(ctx); err != nil {
		return Stats{}, errors.Wrap(err, "counting announcements")
	}
	return stats, nil
}

// RecentActivity merges the latest students, results and announcements, newest first.
func (r *Reporter) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		return nil, nil
	}
	students, err := r.repo.RecentStudents(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent students")
	}
	results, err := r.repo.RecentResults(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent results")
	}
	announcements, err := r.repo.RecentAnnouncements(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent announcements")
	}

	feed := make([]Activity, 0, len(students)+len(results)+len(announcements))
	for _, s := range students {
		feed = append(feed, Activity{
			Kind:        KindStudent,
			Description: fmt.Sprintf("New student added: %s (%s)", s.Name, s.RollNumber),
			CreatedAt:   s.CreatedAt,
		})
	}
	for _, res := range results {
		feed = append(feed, Activity{
			Kind:        KindResult,
			Description: fmt.Sprintf("Result recorded: %s in %s", res.StudentName, res.Subject),
			CreatedAt:   res.CreatedAt,
		})
	}
	for _, a := range announcements {
		feed = append(feed, Activity{
			Kind:        KindAnnouncement,
			Description: "Announcement posted: " + a.Title,
			CreatedAt:   a.CreatedAt,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].CreatedAt.After(feed[j].CreatedAt) })
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

func roundScore(avg null.Float64) int {
	if !avg.Valid {
		return 0
	}
	return int(math.Round(avg.Float64))
}
