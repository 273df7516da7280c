package service

import (
	"quizhub_backend/internal/repository"
)

type DashboardService struct {
	Repo *repository.DashboardRepository
}

func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{Repo: repo}
}

type DashboardData struct {
	TotalUsers     int64                         `json:"totalUsers"`
	Roles          []repository.RoleCount        `json:"roles"`
	TotalQuizzes   int64                         `json:"totalQuizzes"`
	TotalAttempts  int64                         `json:"totalAttempts"`
	AvgScores      []repository.QuizScoreStat    `json:"avgScores"`
	RecentAttempts []repository.RecentAttemptRow `json:"recentAttempts"`
}

func (s *DashboardService) Overview() (*DashboardData, error) {
	totalUsers, err := s.Repo.CountUsers()
	if err != nil {
		return nil, err
	}
	roles, err := s.Repo.CountUsersByRole()
	if err != nil {
		return nil, err
	}
	totalQuizzes, err := s.Repo.CountQuizzes()
	if err != nil {
		return nil, err
	}
	totalAttempts, err := s.Repo.CountAttempts()
	if err != nil {
		return nil, err
	}
	avgScores, err := s.Repo.AvgScoresByQuiz()
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.RecentAttempts(5)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalUsers:     totalUsers,
		Roles:          roles,
		TotalQuizzes:   totalQuizzes,
		TotalAttempts:  totalAttempts,
		AvgScores:      avgScores,
		RecentAttempts: recent,
	}, nil
}
