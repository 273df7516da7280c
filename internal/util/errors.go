package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrQuizNotFound    = errors.New("quiz not found")
	ErrAttemptNotFound = errors.New("attempt not found")

	// ErrInvalidQuestion 包裹具体题目校验信息，见 model.Quiz.Validate
	ErrInvalidQuestion = errors.New("invalid question")

	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidQuiz      = errors.New("invalid quiz")
	ErrResponseCount    = errors.New("responses do not match question count")
	ErrInvalidResponse  = errors.New("invalid response value")
	ErrNegativeTime     = errors.New("timeSpent must be non-negative")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNotEssayQuestion = errors.New("question is not an essay question")
	ErrPointsOutOfRange = errors.New("points out of range for question")
	ErrQuizHasAttempts  = errors.New("quiz already has attempts")
)

// IsValidation 归类为400的错误
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidInput, ErrInvalidQuestion, ErrInvalidQuiz, ErrResponseCount,
		ErrInvalidResponse, ErrNegativeTime, ErrNotEssayQuestion,
		ErrPointsOutOfRange, ErrQuizHasAttempts, ErrEmailRegistered,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound 归类为404的错误
func IsNotFound(err error) bool {
	for _, target := range []error{ErrQuizNotFound, ErrAttemptNotFound, ErrQuestionNotFound, ErrUserNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
