package repos

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/learnhub/learnhub-backend/internal/platform/logger"
)

// openTestDB gives each test its own in-memory database. The postgres schema
// uses uuid_generate_v4 defaults that sqlite cannot express, so the tables
// under test are created by hand instead of AutoMigrate.
func openTestDB(t *testing.T, ddl ...string) (*gorm.DB, *logger.Logger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return db, log
}

const lessonProgressDDL = `
CREATE TABLE lesson_progress (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	lesson_id TEXT NOT NULL,
	course_id TEXT NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT 0,
	completed_at DATETIME,
	created_at DATETIME,
	updated_at DATETIME,
	UNIQUE (user_id, lesson_id)
)`

const quizResultDDL = `
CREATE TABLE quiz_result (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	quiz_id TEXT NOT NULL,
	score INTEGER NOT NULL DEFAULT 0,
	total_points INTEGER NOT NULL DEFAULT 0,
	details TEXT,
	completed_at DATETIME NOT NULL,
	created_at DATETIME,
	updated_at DATETIME,
	UNIQUE (user_id, quiz_id)
)`
