package service

import (
	"errors"
	"testing"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
)

func TestSubmitScoresObjectiveQuestions(t *testing.T) {
	quizSvc, attemptSvc, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	// 单选对、判断对、问答待批 → 5 + 2 + 0
	attempt, created, err := attemptSvc.Submit(quiz.ID, 42, responses(`1`, `0`, `"my answer"`), 120)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !created {
		t.Error("created = false, want true")
	}
	if attempt.Score != 7 {
		t.Errorf("score = %d, want 7", attempt.Score)
	}
	if attempt.TimeSpent != 120 {
		t.Errorf("timeSpent = %d, want 120", attempt.TimeSpent)
	}

	entries, err := attempt.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	for i, e := range entries {
		if e.QuestionIndex != i {
			t.Errorf("entry %d index = %d", i, e.QuestionIndex)
		}
		if e.Points != nil {
			t.Errorf("entry %d graded at submit time: %d", i, *e.Points)
		}
	}
}

func TestSubmitWrongAnswersScoreZero(t *testing.T) {
	quizSvc, attemptSvc, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	attempt, _, err := attemptSvc.Submit(quiz.ID, 42, responses(`0`, `1`, `""`), 30)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Score != 0 {
		t.Errorf("score = %d, want 0", attempt.Score)
	}
}

func TestSubmitExpiredSentinels(t *testing.T) {
	quizSvc, attemptSvc, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	// 超时强制交卷：客观题 -1、问答题空串，必须能落库且得 0 分
	attempt, created, err := attemptSvc.Submit(quiz.ID, 42, responses(`-1`, `-1`, `""`), quiz.Timer*60)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !created || attempt.Score != 0 {
		t.Errorf("created = %v score = %d, want true / 0", created, attempt.Score)
	}
}

func TestSubmitIdempotent(t *testing.T) {
	quizSvc, attemptSvc, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	first, _, err := attemptSvc.Submit(quiz.ID, 42, responses(`1`, `0`, `"first"`), 100)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// 重复提交换了答案也不覆盖，原卷原样返回
	second, created, err := attemptSvc.Submit(quiz.ID, 42, responses(`0`, `1`, `"second"`), 5)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if created {
		t.Error("created = true on duplicate submit")
	}
	if second.ID != first.ID || second.Score != first.Score || second.TimeSpent != 100 {
		t.Errorf("duplicate submit mutated attempt: %+v", second)
	}
}

func TestSubmitValidation(t *testing.T) {
	quizSvc, attemptSvc, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	tests := []struct {
		name    string
		quizID  string
		student uint
		resp    []string
		time    int
		wantErr error
	}{
		{"missing quiz", "does-not-exist", 42, []string{`1`, `0`, `""`}, 10, util.ErrQuizNotFound},
		{"missing student", quiz.ID, 0, []string{`1`, `0`, `""`}, 10, util.ErrInvalidInput},
		{"negative time", quiz.ID, 42, []string{`1`, `0`, `""`}, -1, util.ErrNegativeTime},
		{"too few responses", quiz.ID, 42, []string{`1`, `0`}, 10, util.ErrResponseCount},
		{"too many responses", quiz.ID, 42, []string{`1`, `0`, `""`, `1`}, 10, util.ErrResponseCount},
		{"text for objective", quiz.ID, 42, []string{`"Mitochondria"`, `0`, `""`}, 10, util.ErrInvalidResponse},
		{"number for essay", quiz.ID, 42, []string{`1`, `0`, `3`}, 10, util.ErrInvalidResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := attemptSvc.Submit(tt.quizID, tt.student, responses(tt.resp...), tt.time)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetForStudent(t *testing.T) {
	quizSvc, attemptSvc, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	if _, err := attemptSvc.GetForStudent(quiz.ID, 42); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("err = %v, want ErrAttemptNotFound", err)
	}

	if _, _, err := attemptSvc.Submit(quiz.ID, 42, responses(`1`, `0`, `""`), 10); err != nil {
		t.Fatalf("submit: %v", err)
	}
	attempt, err := attemptSvc.GetForStudent(quiz.ID, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if attempt.StudentID != 42 {
		t.Errorf("studentId = %d, want 42", attempt.StudentID)
	}
}

func TestListRosterOwnership(t *testing.T) {
	quizSvc, attemptSvc, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	if _, err := attemptSvc.ListRoster(99, model.Teacher, quiz.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("foreign teacher err = %v, want ErrPermissionDenied", err)
	}
	rows, err := attemptSvc.ListRoster(teacherID, model.Teacher, quiz.ID)
	if err != nil {
		t.Fatalf("owner roster: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("empty quiz roster = %d rows, want 0", len(rows))
	}
}
