package model

import (
	"encoding/json"
)

// Attempt 一个学生对一份试卷的唯一一次提交。
// (quiz_id, student_id) 上的复合唯一索引是幂等提交的最终保证，
// 应用层的存在性检查只是快速路径（见 service.AttemptService）。
type Attempt struct {
	UUIDBase
	QuizID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_attempt_quiz_student" json:"quizId"`
	StudentID uint   `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_attempt_quiz_student" json:"studentId"`
	Answers   string `gorm:"type:json;not null" json:"-"` // JSON 存储每题作答
	TimeSpent int    `gorm:"not null" json:"timeSpent"`   // 秒
	Score     int    `gorm:"not null;default:0" json:"score"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// AttemptAnswer 单题作答。客观题 answer 为选项下标（未答 -1），
// 问答题为文本；points 仅在问答题被批改后出现。
type AttemptAnswer struct {
	QuestionIndex int             `json:"questionIndex"`
	Answer        json.RawMessage `json:"answer"`
	Points        *int            `json:"points,omitempty"`
}

func (a *Attempt) Entries() ([]AttemptAnswer, error) {
	var entries []AttemptAnswer
	if a.Answers == "" {
		return entries, nil
	}
	err := json.Unmarshal([]byte(a.Answers), &entries)
	return entries, err
}

func (a *Attempt) SetEntries(entries []AttemptAnswer) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	a.Answers = string(b)
	return nil
}
