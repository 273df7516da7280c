package controller

import (
	"strconv"

	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// GradeController 教师侧：答卷名单、单份答卷、问答题批改
type GradeController struct {
	AttemptService *service.AttemptService
	GradingService *service.GradingService
}

func NewGradeController(attemptSvc *service.AttemptService, gradingSvc *service.GradingService) *GradeController {
	return &GradeController{AttemptService: attemptSvc, GradingService: gradingSvc}
}

// @Summary 试卷答卷名单
// @Tags 批改
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{quizId}/attempts [get]
func (c *GradeController) ListAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.AttemptService.ListRoster(user.UserID, user.Role, ctx.Param("quizId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary 某学生的答卷详情
// @Tags 批改
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "试卷ID"
// @Param studentId path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{quizId}/attempts/{studentId} [get]
func (c *GradeController) GetAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	studentID, err := strconv.Atoi(ctx.Param("studentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	attempt, err := c.AttemptService.GetForGrader(user.UserID, user.Role, ctx.Param("quizId"), uint(studentID))
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

type gradeEssayReq struct {
	QuestionIndex int `json:"questionIndex"`
	Points        int `json:"points"`
}

// @Summary 批改问答题并重算总分
// @Tags 批改
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "试卷ID"
// @Param studentId path int true "学生ID"
// @Param body body gradeEssayReq true "批改信息"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{quizId}/attempts/{studentId}/grade [patch]
func (c *GradeController) GradeEssay(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	studentID, err := strconv.Atoi(ctx.Param("studentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	var req gradeEssayReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.GradingService.GradeEssay(user.UserID, user.Role, ctx.Param("quizId"), uint(studentID), req.QuestionIndex, req.Points)
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
