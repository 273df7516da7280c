package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	Repo     *repository.QuizRepository
	Redis    *redis.Client // 可为 nil（测试环境）
	CacheTTL time.Duration
}

func NewQuizService(repo *repository.QuizRepository, rdb *redis.Client, cacheTTL time.Duration) *QuizService {
	return &QuizService{Repo: repo, Redis: rdb, CacheTTL: cacheTTL}
}

type QuestionReq struct {
	Type          model.QuestionType `json:"type" binding:"required"`
	Question      string             `json:"question" binding:"required"`
	Options       []string           `json:"options"`
	CorrectAnswer json.RawMessage    `json:"correctAnswer"`
	Points        int                `json:"points"`
}

type QuizReq struct {
	Name        string        `json:"name" binding:"required"`
	Subject     string        `json:"subject"`
	Description string        `json:"description"`
	Timer       int           `json:"timer" binding:"required"`
	Questions   []QuestionReq `json:"questions" binding:"required"`
}

func (s *QuizService) buildQuestions(req QuizReq) ([]model.QuizQuestion, error) {
	questions := make([]model.QuizQuestion, 0, len(req.Questions))
	for i, qReq := range req.Questions {
		q := model.QuizQuestion{
			Type:          qReq.Type,
			Question:      qReq.Question,
			Points:        qReq.Points,
			CorrectAnswer: qReq.CorrectAnswer,
		}
		if opts, err := json.Marshal(qReq.Options); err == nil {
			q.Options = opts
		}
		q.Normalize()
		if err := q.Validate(i); err != nil {
			return nil, fmt.Errorf("%w: %s", util.ErrInvalidQuestion, err.Error())
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (s *QuizService) Create(ownerID uint, req QuizReq) (*model.Quiz, error) {
	if req.Timer <= 0 {
		return nil, fmt.Errorf("%w: timer must be a positive number of minutes", util.ErrInvalidQuiz)
	}
	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("%w: at least one question is required", util.ErrInvalidQuiz)
	}

	questions, err := s.buildQuestions(req)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		OwnerID:     ownerID,
		Name:        req.Name,
		Subject:     req.Subject,
		Description: req.Description,
		Timer:       req.Timer,
		Questions:   questions,
	}
	if err := s.Repo.CreateWithQuestions(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Get 带答案的原卷，仅限教师端代码路径使用
func (s *QuizService) Get(id string) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

func (s *QuizService) GetOwned(ownerID uint, role model.UserRole, id string) (*model.Quiz, error) {
	quiz, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if quiz.OwnerID != ownerID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	return quiz, nil
}

func (s *QuizService) ListAll() ([]model.Quiz, error) {
	return s.Repo.ListAll()
}

func (s *QuizService) ListByOwner(ownerID uint) ([]model.Quiz, error) {
	return s.Repo.ListByOwner(ownerID)
}

// Update 整卷替换。已有答卷的试卷拒绝修改，避免历史成绩漂移。
func (s *QuizService) Update(ownerID uint, role model.UserRole, id string, req QuizReq) (*model.Quiz, error) {
	quiz, err := s.GetOwned(ownerID, role, id)
	if err != nil {
		return nil, err
	}

	attempts, err := s.Repo.CountAttempts(id)
	if err != nil {
		return nil, err
	}
	if attempts > 0 {
		return nil, util.ErrQuizHasAttempts
	}

	if req.Timer <= 0 {
		return nil, fmt.Errorf("%w: timer must be a positive number of minutes", util.ErrInvalidQuiz)
	}
	questions, err := s.buildQuestions(req)
	if err != nil {
		return nil, err
	}

	quiz.Name = req.Name
	quiz.Subject = req.Subject
	quiz.Description = req.Description
	quiz.Timer = req.Timer
	quiz.Questions = questions

	if err := s.Repo.UpdateWithQuestions(quiz); err != nil {
		return nil, err
	}
	s.invalidateTakeView(id)
	return quiz, nil
}

func (s *QuizService) Delete(ownerID uint, role model.UserRole, id string) error {
	if _, err := s.GetOwned(ownerID, role, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidateTakeView(id)
	return nil
}

// TakeQuestionView 脱敏题目：无 correctAnswer 字段，options 按题型归一
type TakeQuestionView struct {
	Type     model.QuestionType `json:"type"`
	Question string             `json:"question"`
	Options  []string           `json:"options"`
	Points   int                `json:"points"`
}

// TakeQuizView 发给考生的唯一试卷形态
type TakeQuizView struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Subject     string             `json:"subject"`
	Description string             `json:"description"`
	Timer       int                `json:"timer"`
	Questions   []TakeQuestionView `json:"questions"`
}

// RedactQuiz 纯转换：剥离答案键。判断题选项恒为 True/False，
// 问答题恒为空数组，与库中实际存储无关。
func RedactQuiz(quiz *model.Quiz) *TakeQuizView {
	view := &TakeQuizView{
		ID:          quiz.ID,
		Name:        quiz.Name,
		Subject:     quiz.Subject,
		Description: quiz.Description,
		Timer:       quiz.Timer,
		Questions:   make([]TakeQuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qv := TakeQuestionView{
			Type:     q.Type,
			Question: q.Question,
			Points:   q.Points,
		}
		switch q.Type {
		case model.TrueFalse:
			qv.Options = model.TrueFalseOptions
		case model.Essay:
			qv.Options = []string{}
		default:
			qv.Options = q.OptionList()
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

// GetTakeView 考生取卷：优先读缓存，未命中则脱敏后回填
func (s *QuizService) GetTakeView(ctx context.Context, id string) (*TakeQuizView, error) {
	key := takeViewKey(id)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var view TakeQuizView
			if json.Unmarshal([]byte(cached), &view) == nil {
				return &view, nil
			}
		}
	}

	quiz, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	view := RedactQuiz(quiz)

	if s.Redis != nil {
		if b, err := json.Marshal(view); err == nil {
			if err := s.Redis.Set(ctx, key, b, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("take view cache set failed", zap.String("quizId", id), zap.Error(err))
			}
		}
	}
	return view, nil
}

func (s *QuizService) invalidateTakeView(id string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), takeViewKey(id)).Err(); err != nil {
		logger.Log.Warn("take view cache invalidate failed", zap.String("quizId", id), zap.Error(err))
	}
}

func takeViewKey(id string) string {
	return "takequiz:" + id
}
