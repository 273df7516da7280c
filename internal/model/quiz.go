package model

import (
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	Essay          QuestionType = "essay"
)

// TrueFalseOptions 判断题固定选项
var TrueFalseOptions = []string{"True", "False"}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	OwnerID     uint           `gorm:"index;type:bigint unsigned;not null" json:"ownerId"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Subject     string         `gorm:"size:100" json:"subject"`
	Description string         `gorm:"type:text" json:"description"`
	Timer       int            `gorm:"not null" json:"timer"` // 分钟
	Questions   []QuizQuestion `gorm:"-" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 题目行。Position 即对外的 questionIndex，顺序有意义。
// correctAnswer 按题型取值：客观题为选项下标（JSON number），
// 问答题恒为空字符串哨兵（不可自动判分）。
type QuizQuestion struct {
	UUIDBase
	QuizID        string          `gorm:"index;type:varchar(36);not null" json:"-"`
	Position      int             `gorm:"not null" json:"-"`
	Type          QuestionType    `gorm:"size:20;not null" json:"type"`
	Question      string          `gorm:"type:text;not null" json:"question"`
	Options       json.RawMessage `gorm:"type:json" json:"options"`
	CorrectAnswer json.RawMessage `gorm:"type:json" json:"correctAnswer,omitempty"`
	Points        int             `gorm:"not null" json:"points"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// OptionList 解码存储的选项
func (q *QuizQuestion) OptionList() []string {
	var opts []string
	if len(q.Options) > 0 {
		_ = json.Unmarshal(q.Options, &opts)
	}
	return opts
}

// CorrectIndex 客观题的正确选项下标
func (q *QuizQuestion) CorrectIndex() (int, bool) {
	if q.Type == Essay {
		return 0, false
	}
	var idx int
	if err := json.Unmarshal(q.CorrectAnswer, &idx); err != nil {
		return 0, false
	}
	return idx, true
}

// IsObjective 客观题（可按下标相等自动判分）
func (q *QuizQuestion) IsObjective() bool {
	return q.Type == MultipleChoice || q.Type == TrueFalse
}

// Normalize 写入前统一题目字段，与题型绑定：
// 问答题 options 清空、correctAnswer 置空串；判断题 options 固定 True/False。
func (q *QuizQuestion) Normalize() {
	switch q.Type {
	case Essay:
		q.Options = mustJSON([]string{})
		q.CorrectAnswer = mustJSON("")
	case TrueFalse:
		q.Options = mustJSON(TrueFalseOptions)
	}
}

// Validate 写入时校验，题型决定 options/correctAnswer 的形态
func (q *QuizQuestion) Validate(index int) error {
	if q.Question == "" {
		return fmt.Errorf("question %d: text is required", index)
	}
	if q.Points <= 0 {
		return fmt.Errorf("question %d: points must be positive", index)
	}

	switch q.Type {
	case MultipleChoice:
		opts := q.OptionList()
		if len(opts) < 2 {
			return fmt.Errorf("question %d: multiple-choice requires at least 2 options", index)
		}
		idx, ok := q.CorrectIndex()
		if !ok {
			return fmt.Errorf("question %d: correctAnswer must be an option index", index)
		}
		if idx < 0 || idx >= len(opts) {
			return fmt.Errorf("question %d: correctAnswer index %d out of range", index, idx)
		}
	case TrueFalse:
		idx, ok := q.CorrectIndex()
		if !ok {
			return fmt.Errorf("question %d: correctAnswer must be an option index", index)
		}
		if idx != 0 && idx != 1 {
			return fmt.Errorf("question %d: true-false correctAnswer must be 0 or 1", index)
		}
	case Essay:
		var s string
		if err := json.Unmarshal(q.CorrectAnswer, &s); err != nil || s != "" {
			return fmt.Errorf("question %d: essay correctAnswer must be an empty string", index)
		}
	default:
		return fmt.Errorf("question %d: unknown question type %q", index, q.Type)
	}
	return nil
}

func mustJSON(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
