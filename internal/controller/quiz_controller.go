package controller

import (
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// @Summary 创建试卷
// @Tags 试卷管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuizReq true "试卷信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.Create(user.UserID, req)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// @Summary 自己名下的试卷列表
// @Tags 试卷管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes [get]
func (c *QuizController) ListOwned(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizzes, err := c.Service.ListByOwner(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary 全部试卷列表（学生选卷）
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) ListAll(ctx *gin.Context) {
	quizzes, err := c.Service.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary 试卷详情（含答案，仅出题人）
// @Tags 试卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{quizId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz, err := c.Service.GetOwned(user.UserID, user.Role, ctx.Param("quizId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 更新试卷（已有答卷则拒绝）
// @Tags 试卷管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "试卷ID"
// @Param body body service.QuizReq true "试卷信息"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{quizId} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.Update(user.UserID, user.Role, ctx.Param("quizId"), req)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 删除试卷（级联删除答卷）
// @Tags 试卷管理
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{quizId} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.Delete(user.UserID, user.Role, ctx.Param("quizId")); err != nil {
		util.FromServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
