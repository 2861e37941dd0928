package service

import (
	"context"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/util"
	"interview_prep_backend/pkg/logger"
	"interview_prep_backend/pkg/monitoring"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InterviewService 面试会话编排：建会话、推进答题、汇总结果。
// 状态推进全部同步完成，核心里没有 I/O、随机数或定时器；
// primary 可以是远端引擎，fallback 永远是本地引擎。
type InterviewService struct {
	sessions *repository.SessionRepository
	primary  Evaluator
	fallback *LocalEvaluator
}

func NewInterviewService(sessions *repository.SessionRepository, primary Evaluator, fallback *LocalEvaluator) *InterviewService {
	if primary == nil {
		primary = fallback
	}
	return &InterviewService{
		sessions: sessions,
		primary:  primary,
		fallback: fallback,
	}
}

// Provider 当前主引擎标识
func (s *InterviewService) Provider() string {
	return s.primary.Name()
}

// CreateSession 校验资料、加载题目并创建会话。
// 题目列表为空属于配置级错误：会话进入 unusable 状态并返回错误，
// 绝不用占位题目硬撑。
func (s *InterviewService) CreateSession(ctx context.Context, profile model.UserProfile) (*model.InterviewSession, error) {
	if !profile.IsValid() {
		return nil, util.ErrInvalidProfile
	}

	provider := s.primary.Name()
	questions, err := s.primary.GenerateQuestions(ctx, profile)
	if err != nil && s.primary != Evaluator(s.fallback) {
		logger.Log.Warn("remote question generation failed, falling back to local bank",
			zap.String("provider", provider),
			zap.Error(err))
		provider = s.fallback.Name()
		questions, err = s.fallback.GenerateQuestions(ctx, profile)
	}

	now := time.Now()
	session := &model.InterviewSession{
		ID:        uuid.New().String(),
		Profile:   profile,
		State:     model.StateLoading,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err != nil || len(questions) == 0 {
		session.State = model.StateUnusable
		s.sessions.Save(session)
		return session.Clone(), util.ErrEmptyQuestionBank
	}

	session.Questions = questions
	session.State = model.StateInProgress
	s.sessions.Save(session)

	monitoring.SessionsCreated.WithLabelValues(provider).Inc()
	logger.Log.Info("interview session created",
		zap.String("session_id", session.ID),
		zap.String("role", string(profile.Role)),
		zap.String("level", string(profile.ExperienceLevel)),
		zap.String("provider", provider),
		zap.Int("questions", len(questions)))

	return session.Clone(), nil
}

// SubmitAnswer 处理一次作答：评分、生成反馈、追加记录并推进索引。
// 空白答案是本地拒绝的无操作，不会改变任何会话状态；
// 最后一题作答后会话自动进入 completed。
func (s *InterviewService) SubmitAnswer(ctx context.Context, sessionID, answerText string) (*model.InterviewSession, *model.AnswerRecord, error) {
	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, nil, util.ErrEmptyAnswer
	}

	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, nil, err
	}

	switch session.State {
	case model.StateUnusable:
		return nil, nil, util.ErrSessionUnusable
	case model.StateCompleted:
		return nil, nil, util.ErrSessionCompleted
	}

	question := session.CurrentQuestion()
	if question == nil {
		return nil, nil, util.ErrSessionCompleted
	}
	expectedIndex := session.CurrentIndex

	// 评分在锁外进行：远端引擎可能耗时，不能阻塞其他会话
	score, feedback, provider := s.evaluate(ctx, *question, answerText)

	record := model.AnswerRecord{
		QuestionID: question.ID,
		AnswerText: answerText,
		Score:      score,
		Feedback:   feedback,
	}

	updated, err := s.sessions.Update(sessionID, func(stored *model.InterviewSession) error {
		if stored.State != model.StateInProgress {
			return util.ErrSessionCompleted
		}
		// 每个会话只有一个写入方；索引对不上说明出现了并发提交
		if stored.CurrentIndex != expectedIndex {
			return util.ErrSessionConflict
		}

		stored.Answers = append(stored.Answers, record)
		stored.CurrentIndex++
		if stored.CurrentIndex == len(stored.Questions) {
			stored.State = model.StateCompleted
			stored.Completed = true
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	monitoring.AnswersScored.WithLabelValues(provider, string(question.Type)).Inc()
	monitoring.AnswerScores.Observe(float64(score))
	logger.Log.Debug("answer scored",
		zap.String("session_id", sessionID),
		zap.Int("question_id", question.ID),
		zap.Int("score", score),
		zap.String("provider", provider))

	return updated, &record, nil
}

// evaluate 先走主引擎，失败则无条件回退本地启发式引擎。
// 本地引擎对非空输入永不失败，所以这里总能给出结果。
func (s *InterviewService) evaluate(ctx context.Context, question model.QuestionRecord, answerText string) (int, string, string) {
	score, feedback, err := s.primary.EvaluateAnswer(ctx, question, answerText)
	if err == nil {
		return score, feedback, s.primary.Name()
	}

	if s.primary != Evaluator(s.fallback) {
		logger.Log.Warn("remote evaluation failed, falling back to local scorer",
			zap.String("provider", s.primary.Name()),
			zap.Error(err))
	}

	score, feedback, _ = s.fallback.EvaluateAnswer(ctx, question, answerText)
	return score, feedback, s.fallback.Name()
}

// GetSession 按 ID 取会话副本
func (s *InterviewService) GetSession(sessionID string) (*model.InterviewSession, error) {
	return s.sessions.FindByID(sessionID)
}

// CurrentQuestion 返回当前题目；会话已完成时返回 nil
func (s *InterviewService) CurrentQuestion(sessionID string) (*model.QuestionRecord, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.State == model.StateUnusable {
		return nil, util.ErrSessionUnusable
	}
	return session.CurrentQuestion(), nil
}

// Answers 按提交顺序返回全部作答记录
func (s *InterviewService) Answers(sessionID string) ([]model.AnswerRecord, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Answers, nil
}

// DeleteSession 丢弃会话（用户重新开始）
func (s *InterviewService) DeleteSession(sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// SessionSummary 总结页数据
type SessionSummary struct {
	Profile       model.UserProfile    `json:"profile"`
	Completed     bool                 `json:"completed"`
	TotalAnswered int                  `json:"totalAnswered"`
	AverageScore  float64              `json:"averageScore"`
	Answers       []model.AnswerRecord `json:"answers"`
}

// Summary 汇总会话结果，供总结页渲染
func (s *InterviewService) Summary(sessionID string) (*SessionSummary, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}

	summary := &SessionSummary{
		Profile:       session.Profile,
		Completed:     session.IsCompleted(),
		TotalAnswered: len(session.Answers),
		Answers:       session.Answers,
	}

	if len(session.Answers) > 0 {
		total := 0
		for _, a := range session.Answers {
			total += a.Score
		}
		summary.AverageScore = float64(total) / float64(len(session.Answers))
	}

	return summary, nil
}
