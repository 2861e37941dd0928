package service

import (
	"fmt"
	"interview_prep_backend/internal/model"
	"strings"
)

// 评分常量。刻意不做成配置：阈值固定才能保证同样的答案
// 在任何部署上得到同样的分数。
const (
	MinScore  = 1
	MaxScore  = 10
	BaseScore = 5

	// 词数阈值
	minimalWords     = 3  // 低于此值直接给最低分
	shortWords       = 8  // 低于此值算过短，扣分
	substantialWords = 40 // 达到此值算充分，加分（封顶，不随长度继续加）

	shortPenalty   = 2
	lengthBonus    = 2
	maxMarkerBonus = 3 // 关键词加分上限（行为面/技术面各自独立）
)

// starMarkers STAR 叙事结构的表层线索，全部小写，子串匹配。
// 固定查找表，不做任何模式推断，保证可审计。
var starMarkers = []string{
	"situation",
	"task",
	"action",
	"result",
	"challenge",
	"my role",
	"i decided",
	"i was responsible",
	"as a result",
	"the outcome",
	"we achieved",
	"i learned",
	"first,",
	"then,",
	"finally",
}

// technicalMarkers 技术信号词（工具名、技术名词），同样子串匹配
var technicalMarkers = []string{
	"api",
	"database",
	"cach",
	"latency",
	"algorithm",
	"test",
	"deploy",
	"docker",
	"kubernetes",
	"sql",
	"queue",
	"index",
	"performance",
	"scalab",
	"optimiz",
	"architect",
	"microservice",
	"monitor",
	"concurren",
	"refactor",
	"pipeline",
	"metric",
}

// ScoringService 本地启发式评测：纯函数、确定性、无任何 I/O。
// 按表层文本特征打分，不做语义理解。
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Score 对非空答案打分，返回 [1,10] 内的整数。
// 空白输入由会话层拦截，这里假定入参非空。
func (s *ScoringService) Score(answerText string, questionType model.QuestionType) int {
	words := len(strings.Fields(answerText))
	if words < minimalWords {
		return MinScore
	}

	score := BaseScore

	if words < shortWords {
		score -= shortPenalty
	} else if words >= substantialWords {
		score += lengthBonus
	}

	switch questionType {
	case model.QuestionBehavioral:
		score += markerBonus(answerText, starMarkers)
	case model.QuestionTechnical:
		score += markerBonus(answerText, technicalMarkers)
	}

	return clamp(score)
}

// ComposeFeedback 根据分数档位生成反馈文本，永不为空，
// 不暴露任何评分细节。
func (s *ScoringService) ComposeFeedback(answerText string, question model.QuestionRecord, score int) string {
	category := strings.TrimSpace(question.Category)
	if category == "" {
		category = "this topic"
	}

	var b strings.Builder

	switch {
	case score >= 8:
		fmt.Fprintf(&b, "Strong answer on %s. You gave a concrete, well-developed response that an interviewer can easily follow.", category)
	case score >= 5:
		fmt.Fprintf(&b, "Decent answer on %s. There is a solid core here, but it would land better with more depth and specifics.", category)
	default:
		fmt.Fprintf(&b, "This answer on %s needs work. It is too thin for an interviewer to judge your experience from.", category)
	}

	if question.Type == model.QuestionBehavioral && markerBonus(answerText, starMarkers) == 0 {
		b.WriteString(" Try structuring it as situation, task, action and result so the story has a clear arc.")
	}

	if question.Type == model.QuestionTechnical && score < 8 {
		b.WriteString(" Naming the concrete tools, trade-offs and measurements involved would make it more convincing.")
	}

	return b.String()
}

// markerBonus 统计命中的不同关键词个数，封顶 maxMarkerBonus
func markerBonus(answerText string, markers []string) int {
	lower := strings.ToLower(answerText)
	hits := 0
	for _, m := range markers {
		if strings.Contains(lower, m) {
			hits++
			if hits == maxMarkerBonus {
				break
			}
		}
	}
	return hits
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
