package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

// RegisterMetricsCallbacks times every select, insert, update and delete issued through db.
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) error {
	cb := db.Callback()

	return errors.Join(
		cb.Query().Before("gorm:query").Register("metrics:select_before", markStart),
		cb.Query().After("gorm:query").Register("metrics:select_after", observe(recorder, "select")),
		cb.Create().Before("gorm:create").Register("metrics:insert_before", markStart),
		cb.Create().After("gorm:create").Register("metrics:insert_after", observe(recorder, "insert")),
		cb.Update().Before("gorm:update").Register("metrics:update_before", markStart),
		cb.Update().After("gorm:update").Register("metrics:update_after", observe(recorder, "update")),
		cb.Delete().Before("gorm:delete").Register("metrics:delete_before", markStart),
		cb.Delete().After("gorm:delete").Register("metrics:delete_after", observe(recorder, "delete")),
	)
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func observe(recorder MetricsRecorder, operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		started, ok := db.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		recorder.RecordDBQuery(operation, table, time.Since(started.(time.Time)), db.Error)
	}
}

// StartDBStatsCollector publishes connection pool stats every interval until done is closed.
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
