package controller

import (
	"encoding/json"

	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

// TakeQuizController 考生侧：取脱敏试卷、交卷、查成绩
type TakeQuizController struct {
	QuizService    *service.QuizService
	AttemptService *service.AttemptService
}

func NewTakeQuizController(quizSvc *service.QuizService, attemptSvc *service.AttemptService) *TakeQuizController {
	return &TakeQuizController{QuizService: quizSvc, AttemptService: attemptSvc}
}

// @Summary 取卷（答案键已剥离）
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/take-quiz/{quizId} [get]
func (c *TakeQuizController) GetTakeQuiz(ctx *gin.Context) {
	view, err := c.QuizService.GetTakeView(ctx.Request.Context(), ctx.Param("quizId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

type submitReq struct {
	Responses []json.RawMessage `json:"responses" binding:"required"`
	TimeSpent int               `json:"timeSpent"`
}

// @Summary 交卷（同一学生同一试卷幂等）
// @Tags 答题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "试卷ID"
// @Param body body submitReq true "作答"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/submit [post]
func (c *TakeQuizController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req submitReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, created, err := c.AttemptService.Submit(ctx.Param("quizId"), user.UserID, req.Responses, req.TimeSpent)
	if err != nil {
		monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
		util.FromServiceError(ctx, err)
		return
	}

	view, err := service.NewAttemptView(attempt)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if created {
		monitoring.SubmissionCounter.WithLabelValues("created").Inc()
		util.Created(ctx, view)
		return
	}
	// 重复提交不是错误：返回已存在的答卷
	monitoring.SubmissionCounter.WithLabelValues("duplicate").Inc()
	util.Success(ctx, gin.H{"message": "Quiz already taken", "result": view})
}

// @Summary 查询自己的答卷
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/attempt [get]
func (c *TakeQuizController) GetOwnAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.AttemptService.GetForStudent(ctx.Param("quizId"), user.UserID)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	view, err := service.NewAttemptView(attempt)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
