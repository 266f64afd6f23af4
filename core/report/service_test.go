package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjboard/board/core/report"
	"github.com/kjboard/board/storage/database/sqlx"
	"github.com/kjboard/board/tests"
)

func TestReporter_Dashboard(t *testing.T) {
	db := testutil.PrepareDB(t)
	reporter := report.NewReporter(sqlxrepos.NewReportRepository(db))
	ctx := context.Background()

	stats, err := reporter.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.Stats{}, stats, "empty store")

	asha := testutil.CreateStudent(t, db, "Asha", "R100", "10A")
	ravi := testutil.CreateStudent(t, db, "Ravi", "R101", "10A")
	testutil.CreateResult(t, db, asha.ID, "Algebra", 5, 10)
	testutil.CreateResult(t, db, ravi.ID, "Algebra", 7, 10)
	testutil.CreateAnnouncement(t, db, "Holiday", "No class", "normal")

	stats, err = reporter.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.Stats{TotalStudents: 2, TotalResults: 2, TotalAnnouncements: 1, AverageScore: 60}, stats)

	// zero total marks are left out of the average
	testutil.CreateResult(t, db, ravi.ID, "Art", 0, 0)
	stats, err = reporter.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalResults)
	assert.Equal(t, 60, stats.AverageScore)

	summary, err := reporter.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.Stats{TotalStudents: 2, TotalResults: 3, TotalAnnouncements: 1}, summary)
}

func TestReporter_Dashboard_rounding(t *testing.T) {
	db := testutil.PrepareDB(t)
	reporter := report.NewReporter(sqlxrepos.NewReportRepository(db))

	s := testutil.CreateStudent(t, db, "Asha", "R100", "10A")
	testutil.CreateResult(t, db, s.ID, "Algebra", 1, 3)
	testutil.CreateResult(t, db, s.ID, "Geometry", 1, 3)
	testutil.CreateResult(t, db, s.ID, "Calculus", 2, 3)

	stats, err := reporter.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 44, stats.AverageScore) // 44.44
}

func TestReporter_Dashboard_storeFailure(t *testing.T) {
	db := testutil.PrepareDB(t)
	reporter := report.NewReporter(sqlxrepos.NewReportRepository(db))
	require.NoError(t, db.Close())

	_, err := reporter.Dashboard(context.Background())
	assert.Error(t, err)
}

func TestReporter_RecentActivity(t *testing.T) {
	db := testutil.PrepareDB(t)
	reporter := report.NewReporter(sqlxrepos.NewReportRepository(db))
	ctx := context.Background()

	feed, err := reporter.RecentActivity(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, feed)

	now := time.Now().UTC()
	s := testutil.CreateStudent(t, db, "Asha", "R100", "10A", now.Add(-3*time.Hour))
	testutil.CreateResult(t, db, s.ID, "Algebra", 18, 20, now.Add(-1*time.Hour))
	testutil.CreateAnnouncement(t, db, "Holiday", "No class", "normal", now.Add(-2*time.Hour))
	testutil.CreateAnnouncement(t, db, "Old news", "Ignored", "low", now.Add(-48*time.Hour))

	feed, err = reporter.RecentActivity(ctx, 3)
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert.Equal(t, report.KindResult, feed[0].Kind)
	assert.Equal(t, "Result recorded: Asha in Algebra", feed[0].Description)
	assert.Equal(t, "chart-bar", feed[0].Icon())
	assert.Equal(t, report.KindAnnouncement, feed[1].Kind)
	assert.Equal(t, "warning", feed[1].Color())
	assert.Equal(t, report.KindStudent, feed[2].Kind)
	assert.Equal(t, "New student added: Asha (R100)", feed[2].Description)
}
