package service

import (
	"errors"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"gorm.io/gorm"
)

type GradingService struct {
	AttemptRepo *repository.AttemptRepository
	QuizRepo    *repository.QuizRepository
}

func NewGradingService(attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository) *GradingService {
	return &GradingService{AttemptRepo: attemptRepo, QuizRepo: quizRepo}
}

// GradeEssay 给问答题判分并从头重算总分。重复批改直接覆盖（幂等），
// 乱序或重放的批改调用不会累加出错误总分。
// 同一题的并发批改为后写覆盖，不做顺序保证。
func (s *GradingService) GradeEssay(graderID uint, role model.UserRole, quizID string, studentID uint, questionIndex, points int) (*model.Attempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}
	if quiz.OwnerID != graderID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	if questionIndex < 0 || questionIndex >= len(quiz.Questions) {
		return nil, util.ErrQuestionNotFound
	}
	question := quiz.Questions[questionIndex]
	if question.Type != model.Essay {
		return nil, util.ErrNotEssayQuestion
	}
	if points < 0 || points > question.Points {
		return nil, util.ErrPointsOutOfRange
	}

	attempt, err := s.AttemptRepo.FindByQuizAndStudent(quizID, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	} else if err != nil {
		return nil, err
	}

	entries, err := attempt.Entries()
	if err != nil {
		return nil, err
	}
	if questionIndex >= len(entries) {
		return nil, util.ErrQuestionNotFound
	}

	p := points
	entries[questionIndex].Points = &p

	attempt.Score = recomputeScore(quiz.Questions, entries)
	if err := attempt.SetEntries(entries); err != nil {
		return nil, err
	}
	if err := s.AttemptRepo.Update(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// recomputeScore 全量重算：客观题按下标相等给分，
// 问答题取已批分值，未批按 0。不做增量更新，保证批改可重放。
func recomputeScore(questions []model.QuizQuestion, entries []model.AttemptAnswer) int {
	total := 0
	for i, q := range questions {
		if i >= len(entries) {
			break
		}
		if q.IsObjective() {
			total += objectiveScore(&q, entries[i].Answer)
			continue
		}
		if entries[i].Points != nil {
			total += *entries[i].Points
		}
	}
	return total
}
