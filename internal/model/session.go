package model

import "time"

// SessionState 会话状态机：Loading → InProgress → Completed。
// Unusable 仅在题目加载结果为空时出现，属于配置级错误。
type SessionState string

const (
	StateLoading    SessionState = "loading"
	StateInProgress SessionState = "in_progress"
	StateCompleted  SessionState = "completed"
	StateUnusable   SessionState = "unusable"
)

// AnswerRecord 一次作答的结果，创建后不再修改
// swagger:model AnswerRecord
type AnswerRecord struct {
	QuestionID int    `json:"questionId"`
	AnswerText string `json:"answerText"`
	Score      int    `json:"score"` // 恒为 [1,10] 内的整数
	Feedback   string `json:"feedback"`
}

// InterviewSession 一次完整的模拟面试。只存内存，不落库；
// 答案严格按提交顺序追加，不支持撤回或修改。
// swagger:model InterviewSession
type InterviewSession struct {
	ID           string           `json:"id"`
	Profile      UserProfile      `json:"profile"`
	Questions    []QuestionRecord `json:"questions"`
	CurrentIndex int              `json:"currentIndex"`
	Answers      []AnswerRecord   `json:"answers"`
	Completed    bool             `json:"completed"`
	State        SessionState     `json:"state"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// CurrentQuestion 返回当前待回答题目的副本，会话完成后返回 nil
func (s *InterviewSession) CurrentQuestion() *QuestionRecord {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	q := s.Questions[s.CurrentIndex]
	return &q
}

// IsCompleted 所有题目均已作答
func (s *InterviewSession) IsCompleted() bool {
	return s.State == StateCompleted
}

// Clone 返回会话的深拷贝，避免调用方拿到存储层内部指针
func (s *InterviewSession) Clone() *InterviewSession {
	c := *s
	c.Questions = append([]QuestionRecord(nil), s.Questions...)
	c.Answers = append([]AnswerRecord(nil), s.Answers...)
	return &c
}
