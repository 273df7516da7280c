package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// CreateWithQuestions 试卷与题目在一个事务内落库
func (r *QuizRepository) CreateWithQuestions(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		questions := quiz.Questions
		quiz.Questions = nil
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quiz.ID
			questions[i].Position = i
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		quiz.Questions = questions
		return nil
	})
}

func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.First(&quiz, "id = ?", id).Error; err != nil {
		return nil, err
	}
	questions, err := r.ListQuestions(id)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions
	return &quiz, nil
}

// ListQuestions 按 position 排序，position 即 questionIndex
func (r *QuizRepository) ListQuestions(quizID string) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).Order("position asc").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) ListAll() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) ListByOwner(ownerID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

// UpdateWithQuestions 整卷替换题目并更新元数据
func (r *QuizRepository) UpdateWithQuestions(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		questions := quiz.Questions
		quiz.Questions = nil
		if err := tx.Save(quiz).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quiz.ID
			questions[i].Position = i
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		quiz.Questions = questions
		return nil
	})
}

// Delete 级联删除题目与答卷
func (r *QuizRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, "id = ?", id).Error
	})
}

func (r *QuizRepository) CountAttempts(quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}
