package controller

import (
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Questions *repository.QuestionRepository
	Sessions  *repository.SessionRepository
	Interview *service.InterviewService
}

func NewHealthController(questions *repository.QuestionRepository, sessions *repository.SessionRepository, interview *service.InterviewService) *HealthController {
	return &HealthController{Questions: questions, Sessions: sessions, Interview: interview}
}

// @Summary 健康检查
// @Description 检查服务状态与题库可用性
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	bankSize := c.Questions.Size()
	if bankSize == 0 {
		util.Error(ctx, http.StatusServiceUnavailable, "Question bank unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"questionBank":   gin.H{"status": "up", "size": bankSize},
			"activeSessions": c.Sessions.Count(),
			"provider":       c.Interview.Provider(),
		},
	})
}
