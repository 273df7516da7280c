package session

import (
	"encoding/json"
	"errors"
	"testing"

	"quizhub_backend/internal/model"
)

var threeTypes = []model.QuestionType{model.MultipleChoice, model.TrueFalse, model.Essay}

func TestNewInitializesSentinels(t *testing.T) {
	s := New(threeTypes, 30, func([]json.RawMessage, int) error { return nil })

	if got := s.Remaining(); got != 30*60 {
		t.Errorf("remaining = %d, want %d", got, 30*60)
	}

	var captured []json.RawMessage
	s.submit = func(responses []json.RawMessage, _ int) error {
		captured = responses
		return nil
	}
	if err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := []string{`-1`, `-1`, `""`}
	for i, w := range want {
		if string(captured[i]) != w {
			t.Errorf("response %d = %s, want %s", i, captured[i], w)
		}
	}
}

func TestTickCountsDownAndForcesSubmit(t *testing.T) {
	submits := 0
	var captured []json.RawMessage
	s := New(threeTypes, 1, func(responses []json.RawMessage, _ int) error {
		submits++
		captured = responses
		return nil
	})

	if err := s.SetAnswer(0, json.RawMessage(`2`)); err != nil {
		t.Fatalf("set answer: %v", err)
	}

	for i := 0; i < 59; i++ {
		if done := s.tick(); done {
			t.Fatalf("expired early at tick %d", i)
		}
	}
	if got := s.Remaining(); got != 1 {
		t.Errorf("remaining = %d, want 1", got)
	}

	if done := s.tick(); !done {
		t.Fatal("final tick did not expire")
	}
	if submits != 1 {
		t.Fatalf("submits = %d, want 1", submits)
	}
	if !s.Submitted() {
		t.Error("session not marked submitted")
	}

	// 已作答的保留，未作答的带占位值
	want := []string{`2`, `-1`, `""`}
	for i, w := range want {
		if string(captured[i]) != w {
			t.Errorf("response %d = %s, want %s", i, captured[i], w)
		}
	}

	// 归零后 tick 再来也不会二次提交
	for i := 0; i < 5; i++ {
		if done := s.tick(); !done {
			t.Error("post-expiry tick returned not-done")
		}
	}
	if submits != 1 {
		t.Errorf("submits after extra ticks = %d, want 1", submits)
	}
}

func TestManualSubmitIsTerminal(t *testing.T) {
	submits := 0
	s := New(threeTypes, 30, func([]json.RawMessage, int) error {
		submits++
		return nil
	})

	if err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.Submit(); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second submit err = %v, want ErrAlreadySubmitted", err)
	}
	if err := s.SetAnswer(0, json.RawMessage(`1`)); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("set after submit err = %v, want ErrAlreadySubmitted", err)
	}
	if done := s.tick(); !done {
		t.Error("tick after submit returned not-done")
	}
	if submits != 1 {
		t.Errorf("submits = %d, want 1", submits)
	}
}

func TestSetAnswerBounds(t *testing.T) {
	s := New(threeTypes, 30, func([]json.RawMessage, int) error { return nil })

	if err := s.SetAnswer(-1, json.RawMessage(`0`)); !errors.Is(err, ErrBadQuestionIndex) {
		t.Errorf("negative index err = %v, want ErrBadQuestionIndex", err)
	}
	if err := s.SetAnswer(3, json.RawMessage(`0`)); !errors.Is(err, ErrBadQuestionIndex) {
		t.Errorf("index past end err = %v, want ErrBadQuestionIndex", err)
	}
	if err := s.SetAnswer(2, json.RawMessage(`"draft"`)); err != nil {
		t.Errorf("valid index err = %v", err)
	}
}

func TestSubmitErrorStillTerminal(t *testing.T) {
	failure := errors.New("storage down")
	s := New(threeTypes, 30, func([]json.RawMessage, int) error { return failure })

	if err := s.Submit(); !errors.Is(err, failure) {
		t.Errorf("submit err = %v, want injected failure", err)
	}
	// 提交失败也算提交过：规则是至多一次，不是至少一次
	if err := s.Submit(); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("resubmit err = %v, want ErrAlreadySubmitted", err)
	}
}
