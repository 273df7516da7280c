package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"gorm.io/gorm"
)

type AttemptService struct {
	Repo     *repository.AttemptRepository
	QuizRepo *repository.QuizRepository
}

func NewAttemptService(repo *repository.AttemptRepository, quizRepo *repository.QuizRepository) *AttemptService {
	return &AttemptService{Repo: repo, QuizRepo: quizRepo}
}

// AttemptView 对外的答卷形态，answers 已解码
type AttemptView struct {
	ID        string                `json:"id"`
	QuizID    string                `json:"quizId"`
	StudentID uint                  `json:"studentId"`
	Answers   []model.AttemptAnswer `json:"answers"`
	TimeSpent int                   `json:"timeSpent"`
	Score     int                   `json:"score"`
	CreatedAt string                `json:"createdAt"`
	UpdatedAt string                `json:"updatedAt"`
}

func NewAttemptView(a *model.Attempt) (*AttemptView, error) {
	entries, err := a.Entries()
	if err != nil {
		return nil, err
	}
	return &AttemptView{
		ID:        a.ID,
		QuizID:    a.QuizID,
		StudentID: a.StudentID,
		Answers:   entries,
		TimeSpent: a.TimeSpent,
		Score:     a.Score,
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// Submit 落库一次答卷并自动判分。对同一 (quizId, studentId) 幂等：
// 已有答卷原样返回，绝不覆盖。返回值第二项表示本次是否新建。
func (s *AttemptService) Submit(quizID string, studentID uint, responses []json.RawMessage, timeSpent int) (*model.Attempt, bool, error) {
	if quizID == "" || studentID == 0 {
		return nil, false, fmt.Errorf("%w: quizId and studentId are required", util.ErrInvalidInput)
	}
	if timeSpent < 0 {
		return nil, false, util.ErrNegativeTime
	}

	// 快速路径：已提交过直接返回
	if existing, err := s.Repo.FindByQuizAndStudent(quizID, studentID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, util.ErrQuizNotFound
	} else if err != nil {
		return nil, false, err
	}

	if len(responses) != len(quiz.Questions) {
		return nil, false, util.ErrResponseCount
	}

	score := 0
	entries := make([]model.AttemptAnswer, 0, len(responses))
	for i, q := range quiz.Questions {
		if err := checkResponseType(&q, responses[i]); err != nil {
			return nil, false, fmt.Errorf("%w: question %d", util.ErrInvalidResponse, i)
		}
		entries = append(entries, model.AttemptAnswer{
			QuestionIndex: i,
			Answer:        responses[i],
		})
		// 问答题提交时不计分，等待批改
		if !q.IsObjective() {
			continue
		}
		score += objectiveScore(&q, responses[i])
	}

	attempt := &model.Attempt{
		QuizID:    quizID,
		StudentID: studentID,
		TimeSpent: timeSpent,
		Score:     score,
	}
	if err := attempt.SetEntries(entries); err != nil {
		return nil, false, err
	}

	if err := s.Repo.Create(attempt); err != nil {
		// 并发提交撞上唯一索引：读回先到者并返回，提交本身不是错误
		if existing, findErr := s.Repo.FindByQuizAndStudent(quizID, studentID); findErr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	return attempt, true, nil
}

// GetForStudent 学生查询自己的答卷
func (s *AttemptService) GetForStudent(quizID string, studentID uint) (*model.Attempt, error) {
	attempt, err := s.Repo.FindByQuizAndStudent(quizID, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, err
}

// GetForGrader 教师查询某学生的答卷，校验出题人归属
func (s *AttemptService) GetForGrader(graderID uint, role model.UserRole, quizID string, studentID uint) (*model.Attempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}
	if quiz.OwnerID != graderID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	return s.GetForStudent(quizID, studentID)
}

func (s *AttemptService) ListRoster(graderID uint, role model.UserRole, quizID string) ([]repository.AttemptRosterRow, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}
	if quiz.OwnerID != graderID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	return s.Repo.ListRoster(quizID)
}

// checkResponseType 客观题必须是数字下标（未答 -1），问答题必须是字符串
func checkResponseType(q *model.QuizQuestion, response json.RawMessage) error {
	if q.IsObjective() {
		var idx int
		return json.Unmarshal(response, &idx)
	}
	var s string
	return json.Unmarshal(response, &s)
}

// objectiveScore 按下标严格相等判分
func objectiveScore(q *model.QuizQuestion, response json.RawMessage) int {
	correct, ok := q.CorrectIndex()
	if !ok {
		return 0
	}
	var given int
	if err := json.Unmarshal(response, &given); err != nil {
		return 0
	}
	if given == correct {
		return q.Points
	}
	return 0
}
