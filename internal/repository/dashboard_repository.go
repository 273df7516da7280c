package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type DashboardRepository struct {
	DB *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

type RoleCount struct {
	Role  model.UserRole `json:"role"`
	Count int64          `json:"count"`
}

type QuizScoreStat struct {
	QuizID      string  `json:"quizId"`
	QuizName    string  `json:"quizName"`
	AvgScore    float64 `json:"avgScore"`
	Submissions int64   `json:"submissions"`
}

type RecentAttemptRow struct {
	AttemptID   string `json:"attemptId"`
	QuizName    string `json:"quizName"`
	StudentName string `json:"studentName"`
	Email       string `json:"email"`
	Score       int    `json:"score"`
	SubmittedAt string `json:"submittedAt"`
}

func (r *DashboardRepository) CountUsers() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountUsersByRole() ([]RoleCount, error) {
	var rows []RoleCount
	err := r.DB.Model(&model.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error
	return rows, err
}

func (r *DashboardRepository) CountQuizzes() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountAttempts() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).Count(&count).Error
	return count, err
}

// AvgScoresByQuiz 每份试卷的平均分与提交数
func (r *DashboardRepository) AvgScoresByQuiz() ([]QuizScoreStat, error) {
	var rows []QuizScoreStat
	err := r.DB.Table("attempts a").
		Select("a.quiz_id, q.name as quiz_name, AVG(a.score) as avg_score, COUNT(*) as submissions").
		Joins("JOIN quizzes q ON q.id = a.quiz_id").
		Where("a.deleted_at IS NULL AND q.deleted_at IS NULL").
		Group("a.quiz_id, q.name").
		Scan(&rows).Error
	return rows, err
}

func (r *DashboardRepository) RecentAttempts(limit int) ([]RecentAttemptRow, error) {
	var rows []RecentAttemptRow
	err := r.DB.Table("attempts a").
		Select("a.id as attempt_id, q.name as quiz_name, u.name as student_name, u.email, a.score, a.created_at as submitted_at").
		Joins("JOIN quizzes q ON q.id = a.quiz_id").
		Joins("JOIN users u ON u.id = a.student_id").
		Where("a.deleted_at IS NULL").
		Order("a.created_at desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
