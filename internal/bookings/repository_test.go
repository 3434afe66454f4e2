package bookings

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// The reserve/pay/release paths all serialize on row locks; a query that
// silently drops the locking clause would reopen the webhook-vs-worker race.
func TestLockForUpdateEmitsLockingClause(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run session: %v", err)
	}

	stmt := lockForUpdate(db).
		Where("id = ?", uuid.New()).
		Find(&Booking{}).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "FOR UPDATE") {
		t.Fatalf("query %q carries no row lock", sql)
	}
}
