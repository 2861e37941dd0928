package service

import (
	"context"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/util"
)

// Evaluator 出题与评分的统一契约。本地启发式引擎和远端生成式
// 引擎都实现它，二者在会话层可互换；远端失败时会话层总是回退
// 到本地实现。
type Evaluator interface {
	// Name 提供方标识（日志、指标用）
	Name() string
	// GenerateQuestions 按资料给出有序题目列表
	GenerateQuestions(ctx context.Context, profile model.UserProfile) ([]model.QuestionRecord, error)
	// EvaluateAnswer 对单个非空答案给出 [1,10] 分数与非空反馈
	EvaluateAnswer(ctx context.Context, question model.QuestionRecord, answerText string) (int, string, error)
}

// LocalEvaluator 本地实现：题库选题 + 启发式评分。
// 除题库为空外不会失败，是唯一不依赖网络的提供方。
type LocalEvaluator struct {
	questions *repository.QuestionRepository
	scoring   *ScoringService
}

func NewLocalEvaluator(questions *repository.QuestionRepository, scoring *ScoringService) *LocalEvaluator {
	return &LocalEvaluator{questions: questions, scoring: scoring}
}

func (e *LocalEvaluator) Name() string {
	return "local"
}

func (e *LocalEvaluator) GenerateQuestions(_ context.Context, profile model.UserProfile) ([]model.QuestionRecord, error) {
	questions := e.questions.SelectQuestions(profile.Role, profile.ExperienceLevel)
	if len(questions) == 0 {
		return nil, util.ErrEmptyQuestionBank
	}
	return questions, nil
}

func (e *LocalEvaluator) EvaluateAnswer(_ context.Context, question model.QuestionRecord, answerText string) (int, string, error) {
	score := e.scoring.Score(answerText, question.Type)
	feedback := e.scoring.ComposeFeedback(answerText, question, score)
	return score, feedback, nil
}
