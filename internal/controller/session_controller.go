package controller

import (
	"errors"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Service *service.InterviewService
}

func NewSessionController(svc *service.InterviewService) *SessionController {
	return &SessionController{Service: svc}
}

// @Summary 创建面试会话
// @Description 提交资料，生成题目列表并开始面试
// @Tags 面试会话
// @Accept json
// @Produce json
// @Param body body model.UserProfile true "用户资料"
// @Success 201 {object} util.Response
// @Router /api/sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var profile model.UserProfile
	if err := ctx.ShouldBindJSON(&profile); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.CreateSession(ctx.Request.Context(), profile)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidProfile):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrEmptyQuestionBank):
			util.Error(ctx, http.StatusServiceUnavailable, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, session)
}

// @Summary 获取会话状态
// @Tags 面试会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	session, err := c.Service.GetSession(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, session)
}

// @Summary 获取当前题目
// @Description 会话已完成时 question 为空且 completed 为 true
// @Tags 面试会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/question [get]
func (c *SessionController) GetCurrentQuestion(ctx *gin.Context) {
	question, err := c.Service.CurrentQuestion(ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSessionUnusable):
			util.Error(ctx, http.StatusServiceUnavailable, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"question":  question,
		"completed": question == nil,
	})
}

type SubmitAnswerRequest struct {
	Text string `json:"text" binding:"required"`
}

// @Summary 提交答案
// @Description 对当前题目提交自由文本答案，返回评分与反馈；空白文本会被拒绝且不改变会话状态
// @Tags 面试会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param body body SubmitAnswerRequest true "答案文本"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/answers [post]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, record, err := c.Service.SubmitAnswer(ctx.Request.Context(), ctx.Param("id"), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyAnswer):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSessionCompleted), errors.Is(err, util.ErrSessionConflict):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrSessionUnusable):
			util.Error(ctx, http.StatusServiceUnavailable, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"answer":       record,
		"currentIndex": session.CurrentIndex,
		"completed":    session.Completed,
	})
}

// @Summary 获取面试总结
// @Description 按提交顺序返回全部作答记录与平均分
// @Tags 面试会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/summary [get]
func (c *SessionController) GetSummary(ctx *gin.Context) {
	summary, err := c.Service.Summary(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, summary)
}

// @Summary 丢弃会话
// @Description 用户重新开始时丢弃旧会话
// @Tags 面试会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id} [delete]
func (c *SessionController) DeleteSession(ctx *gin.Context) {
	if err := c.Service.DeleteSession(ctx.Param("id")); err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
