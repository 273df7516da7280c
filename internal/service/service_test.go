package service

import (
	"encoding/json"
	"testing"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// 内存库：单连接，避免每个连接各自一份空库
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newFixture(t *testing.T) (*QuizService, *AttemptService, *GradingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	quizRepo := repository.NewQuizRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	quizSvc := NewQuizService(quizRepo, nil, 0)
	attemptSvc := NewAttemptService(attemptRepo, quizRepo)
	gradingSvc := NewGradingService(attemptRepo, quizRepo)
	return quizSvc, attemptSvc, gradingSvc, db
}

const teacherID uint = 1

// seedQuiz 三题试卷：单选(正确=1, 5分)、判断(正确=0, 2分)、问答(满分10)
func seedQuiz(t *testing.T, svc *QuizService) *model.Quiz {
	t.Helper()
	quiz, err := svc.Create(teacherID, QuizReq{
		Name:        "Biology midterm",
		Subject:     "Biology",
		Description: "chapters 1-3",
		Timer:       30,
		Questions: []QuestionReq{
			{
				Type:          model.MultipleChoice,
				Question:      "Which organelle produces ATP?",
				Options:       []string{"Nucleus", "Mitochondria", "Ribosome"},
				CorrectAnswer: json.RawMessage(`1`),
				Points:        5,
			},
			{
				Type:          model.TrueFalse,
				Question:      "Plants perform photosynthesis.",
				CorrectAnswer: json.RawMessage(`0`),
				Points:        2,
			},
			{
				Type:     model.Essay,
				Question: "Describe the Calvin cycle.",
				Points:   10,
			},
		},
	})
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return quiz
}

func responses(raw ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(raw))
	for i, r := range raw {
		out[i] = json.RawMessage(r)
	}
	return out
}
