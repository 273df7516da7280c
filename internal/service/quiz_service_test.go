package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
)

func TestRedactQuizStripsAnswerKey(t *testing.T) {
	quizSvc, _, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	view := RedactQuiz(quiz)

	b, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	if strings.Contains(string(b), "correctAnswer") {
		t.Errorf("redacted view leaks answer key: %s", b)
	}

	if len(view.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(view.Questions))
	}
	if view.Timer != 30 {
		t.Errorf("timer = %d, want 30", view.Timer)
	}

	// 题干与分值原样透传
	if view.Questions[0].Points != 5 || view.Questions[0].Question != "Which organelle produces ATP?" {
		t.Errorf("question passthrough broken: %+v", view.Questions[0])
	}
}

func TestRedactQuizNormalizesOptions(t *testing.T) {
	// 库里存了什么不重要：判断题必须恒为 True/False，问答题恒为空数组
	quiz := &model.Quiz{
		Timer: 10,
		Questions: []model.QuizQuestion{
			{
				Type:          model.TrueFalse,
				Question:      "q1",
				Options:       json.RawMessage(`["Yes","No","Maybe"]`),
				CorrectAnswer: json.RawMessage(`0`),
				Points:        1,
			},
			{
				Type:          model.Essay,
				Question:      "q2",
				Options:       json.RawMessage(`["should","not","be","here"]`),
				CorrectAnswer: json.RawMessage(`""`),
				Points:        4,
			},
		},
	}

	view := RedactQuiz(quiz)

	tf := view.Questions[0].Options
	if len(tf) != 2 || tf[0] != "True" || tf[1] != "False" {
		t.Errorf("true-false options = %v, want [True False]", tf)
	}
	if essay := view.Questions[1].Options; len(essay) != 0 {
		t.Errorf("essay options = %v, want []", essay)
	}
}

func TestGetTakeViewNotFound(t *testing.T) {
	quizSvc, _, _, _ := newFixture(t)

	_, err := quizSvc.GetTakeView(context.Background(), "no-such-quiz")
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	quizSvc, _, _, _ := newFixture(t)

	tests := []struct {
		name string
		req  QuizReq
	}{
		{
			name: "zero timer",
			req: QuizReq{
				Name:  "q",
				Timer: 0,
				Questions: []QuestionReq{
					{Type: model.Essay, Question: "x", Points: 1},
				},
			},
		},
		{
			name: "no questions",
			req:  QuizReq{Name: "q", Timer: 10},
		},
		{
			name: "bad question",
			req: QuizReq{
				Name:  "q",
				Timer: 10,
				Questions: []QuestionReq{
					{
						Type:          model.MultipleChoice,
						Question:      "x",
						Options:       []string{"only one"},
						CorrectAnswer: json.RawMessage(`0`),
						Points:        1,
					},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quizSvc.Create(teacherID, tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !util.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestUpdateRejectedOnceAttempted(t *testing.T) {
	quizSvc, attemptSvc, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	if _, _, err := attemptSvc.Submit(quiz.ID, 42, responses(`1`, `0`, `"essay text"`), 60); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := quizSvc.Update(teacherID, model.Teacher, quiz.ID, QuizReq{
		Name:  "renamed",
		Timer: 15,
		Questions: []QuestionReq{
			{Type: model.Essay, Question: "only question now", Points: 3},
		},
	})
	if !errors.Is(err, util.ErrQuizHasAttempts) {
		t.Errorf("err = %v, want ErrQuizHasAttempts", err)
	}
}

func TestQuizOwnership(t *testing.T) {
	quizSvc, _, _, _ := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	if _, err := quizSvc.GetOwned(99, model.Teacher, quiz.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("foreign teacher err = %v, want ErrPermissionDenied", err)
	}
	// 管理员放行
	if _, err := quizSvc.GetOwned(99, model.Admin, quiz.ID); err != nil {
		t.Errorf("admin err = %v, want nil", err)
	}
}

func TestDeleteCascadesAttempts(t *testing.T) {
	quizSvc, attemptSvc, _, db := newFixture(t)
	quiz := seedQuiz(t, quizSvc)

	if _, _, err := attemptSvc.Submit(quiz.ID, 42, responses(`1`, `0`, `""`), 10); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := quizSvc.Delete(teacherID, model.Teacher, quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var attempts int64
	db.Model(&model.Attempt{}).Where("quiz_id = ?", quiz.ID).Count(&attempts)
	if attempts != 0 {
		t.Errorf("attempts after cascade = %d, want 0", attempts)
	}
	var questions int64
	db.Model(&model.QuizQuestion{}).Where("quiz_id = ?", quiz.ID).Count(&questions)
	if questions != 0 {
		t.Errorf("questions after cascade = %d, want 0", questions)
	}
}
