package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create 单行插入；(quiz_id, student_id) 唯一索引冲突时返回 gorm.ErrDuplicatedKey
func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByQuizAndStudent(quizID string, studentID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.Where("quiz_id = ? AND student_id = ?", quizID, studentID).First(&attempt).Error
	return &attempt, err
}

// Update 批改后整行覆写（answers + score），单条原子更新
func (r *AttemptRepository) Update(attempt *model.Attempt) error {
	return r.DB.Save(attempt).Error
}

// AttemptRosterRow 教师端答卷名单行
type AttemptRosterRow struct {
	AttemptID   string `json:"attemptId"`
	StudentID   uint   `json:"studentId"`
	StudentName string `json:"studentName"`
	Email       string `json:"email"`
	Score       int    `json:"score"`
	TimeSpent   int    `json:"timeSpent"`
	SubmittedAt string `json:"submittedAt"`
}

func (r *AttemptRepository) ListRoster(quizID string) ([]AttemptRosterRow, error) {
	var rows []AttemptRosterRow
	err := r.DB.Table("attempts a").
		Select("a.id as attempt_id, a.student_id, u.name as student_name, u.email, a.score, a.time_spent, a.created_at as submitted_at").
		Joins("JOIN users u ON u.id = a.student_id").
		Where("a.quiz_id = ? AND a.deleted_at IS NULL", quizID).
		Order("a.created_at asc").
		Scan(&rows).Error
	return rows, err
}
