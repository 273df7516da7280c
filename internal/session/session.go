// Package session implements the client-side take-quiz session:
// a one-tick-per-second countdown that force-submits exactly once at expiry.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"quizhub_backend/internal/model"
)

var (
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrBadQuestionIndex = errors.New("question index out of range")
)

// SubmitFunc 由调用方注入的提交动作，responses 为当前持有的全部作答
type SubmitFunc func(responses []json.RawMessage, timeSpent int) error

// TakeSession 驱动一次答题过程。未作答的客观题以 -1 占位，
// 问答题以空字符串占位。倒计时归零触发一次且仅一次的强制提交，
// 手动提交会取消倒计时；两条路径共用同一幂等提交规则。
type TakeSession struct {
	mu        sync.Mutex
	types     []model.QuestionType
	responses []json.RawMessage
	remaining int
	startedAt time.Time
	submit    SubmitFunc
	submitted bool
	cancel    context.CancelFunc
}

// New 初始化会话：倒计时 timer*60 秒，从取到脱敏试卷那一刻起算
func New(types []model.QuestionType, timerMinutes int, submit SubmitFunc) *TakeSession {
	responses := make([]json.RawMessage, len(types))
	for i, t := range types {
		if t == model.Essay {
			responses[i] = json.RawMessage(`""`)
		} else {
			responses[i] = json.RawMessage(`-1`)
		}
	}
	return &TakeSession{
		types:     types,
		responses: responses,
		remaining: timerMinutes * 60,
		startedAt: time.Now(),
		submit:    submit,
	}
}

// Start 启动倒计时循环。归零后即便 tick 继续到来，
// 提交守卫也保证强制提交至多触发一次。
func (s *TakeSession) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.tick() {
					return
				}
			}
		}
	}()
}

// tick 返回 true 表示倒计时已结束
func (s *TakeSession) tick() bool {
	s.mu.Lock()
	if s.submitted {
		s.mu.Unlock()
		return true
	}
	if s.remaining > 0 {
		s.remaining--
	}
	expired := s.remaining == 0
	s.mu.Unlock()

	if expired {
		// 过期强制提交，错误交给注入的 submit 处理方，这里不重试
		_ = s.Submit()
		return true
	}
	return false
}

// SetAnswer 记录一题作答
func (s *TakeSession) SetAnswer(index int, answer json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return ErrAlreadySubmitted
	}
	if index < 0 || index >= len(s.responses) {
		return ErrBadQuestionIndex
	}
	s.responses[index] = answer
	return nil
}

// Submit 提交当前作答并取消倒计时。重复调用（包括强制提交之后的
// 手动提交，或归零后仍在触发的 tick）返回 ErrAlreadySubmitted。
func (s *TakeSession) Submit() error {
	s.mu.Lock()
	if s.submitted {
		s.mu.Unlock()
		return ErrAlreadySubmitted
	}
	s.submitted = true
	responses := make([]json.RawMessage, len(s.responses))
	copy(responses, s.responses)
	timeSpent := int(time.Since(s.startedAt).Seconds())
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return s.submit(responses, timeSpent)
}

// Remaining 剩余秒数
func (s *TakeSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Submitted 是否已提交（手动或强制）
func (s *TakeSession) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}
