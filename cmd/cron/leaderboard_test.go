package main

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// A database that keeps failing must not trap the scan in a loop; the next
// tick retries from scratch.
func TestRunScheduledTaskStopsOnDatabaseError(t *testing.T) {
	sqldb, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqldb.Close()

	// no expectations registered: every family page query fails
	job := &LeaderboardJob{Db: bun.NewDB(sqldb, pgdialect.New())}

	done := make(chan struct{})
	go func() {
		job.runScheduledTask()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan kept retrying after a database error")
	}
}
