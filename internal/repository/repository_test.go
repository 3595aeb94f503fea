package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillbridge/internal/model"
)

// dryRun opens a dialect without connecting; statements are only rendered.
func dryRun(t *testing.T, dialect string) *gorm.DB {
	t.Helper()
	var dialector gorm.Dialector
	switch dialect {
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: "host=localhost user=skillbridge dbname=skillbridge sslmode=disable"})
	case "mysql":
		dialector = mysql.New(mysql.Config{DSN: "skillbridge:secret@tcp(localhost:3306)/skillbridge?parseTime=true", SkipInitializeWithVersion: true})
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return db
}

func TestWhereSubject(t *testing.T) {
	tests := []struct {
		dialect  string
		expected string
	}{
		{"postgres", `subjects @> CAST('["algebra"]' AS jsonb)`},
		{"mysql", `JSON_CONTAINS(subjects, '["algebra"]')`},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			db := dryRun(t, tt.dialect)
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				var profiles []model.TutorProfile
				return whereSubject(tx.Model(&model.TutorProfile{}), "algebra").Find(&profiles)
			})
			assert.Contains(t, sql, tt.expected)
		})
	}
}

func TestRatingStatsQuery(t *testing.T) {
	tutorID := uuid.New()
	db := dryRun(t, "postgres")

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var stats RatingStats
		return ratingStatsQuery(tx, tutorID).Scan(&stats)
	})
	assert.Contains(t, sql, "COALESCE(SUM(rating), 0) AS rating_sum, COUNT(*) AS total")
	assert.Contains(t, sql, "tutor_id = '"+tutorID.String()+"'")
}

func TestLockByUserQuery(t *testing.T) {
	userID := uuid.New()

	for _, dialect := range []string{"postgres", "mysql"} {
		t.Run(dialect, func(t *testing.T) {
			db := dryRun(t, dialect)
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				var ids []uuid.UUID
				return lockByUserQuery(tx, userID).Pluck("id", &ids)
			})
			assert.Contains(t, sql, "student_id = '"+userID.String()+"' OR tutor_id IN (SELECT")
			assert.Contains(t, sql, "user_id = '"+userID.String()+"'")
			assert.Contains(t, sql, "FOR UPDATE")
		})
	}
}
