package repository

import (
	"fmt"
	"interview_prep_backend/internal/model"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// QuestionRepository 只读题库。内置默认题库保证任意 (岗位, 档位)
// 组合都能拿到非空且顺序稳定的题目列表；可用 YAML 文件整体替换。
type QuestionRepository struct {
	mu   sync.RWMutex
	bank *model.QuestionBank
}

func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{bank: defaultBank()}
}

// NewQuestionRepositoryWithBank 使用指定题库，不做校验（测试用）
func NewQuestionRepositoryWithBank(bank *model.QuestionBank) *QuestionRepository {
	return &QuestionRepository{bank: bank}
}

// LoadFile 用 YAML 题库文件替换当前题库，文件非法时保留旧题库
func (r *QuestionRepository) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取题库文件 %s 失败: %w", path, err)
	}

	var bank model.QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return fmt.Errorf("解析题库 YAML 失败: %w", err)
	}

	if err := bank.Validate(); err != nil {
		return fmt.Errorf("题库校验失败: %w", err)
	}

	r.mu.Lock()
	r.bank = &bank
	r.mu.Unlock()

	return nil
}

// SelectQuestions 按 (岗位, 档位) 组合确定性地给出题目列表：
// 技术题在前（按岗位，未识别岗位退回通用技术题），行为题在后
// （公共 + 档位追加）。同样的入参永远得到同样的列表和编号。
func (r *QuestionRepository) SelectQuestions(role model.Role, level model.ExperienceLevel) []model.QuestionRecord {
	r.mu.RLock()
	bank := r.bank
	r.mu.RUnlock()

	technical := bank.Technical.Roles[string(role)]
	if len(technical) == 0 {
		technical = bank.Technical.Generic
	}

	behavioral := bank.Behavioral.Common
	extra := bank.Behavioral.Levels[string(level)]

	questions := make([]model.QuestionRecord, 0, len(technical)+len(behavioral)+len(extra))

	id := 1
	for _, q := range technical {
		questions = append(questions, model.QuestionRecord{
			ID:       id,
			Text:     q.Text,
			Type:     model.QuestionTechnical,
			Category: q.Category,
		})
		id++
	}
	for _, q := range behavioral {
		questions = append(questions, model.QuestionRecord{
			ID:       id,
			Text:     q.Text,
			Type:     model.QuestionBehavioral,
			Category: q.Category,
		})
		id++
	}
	for _, q := range extra {
		questions = append(questions, model.QuestionRecord{
			ID:       id,
			Text:     q.Text,
			Type:     model.QuestionBehavioral,
			Category: q.Category,
		})
		id++
	}

	return questions
}

// Size 当前题库中的题目总数（健康检查用）
func (r *QuestionRepository) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.bank.Behavioral.Common) + len(r.bank.Technical.Generic)
	for _, qs := range r.bank.Behavioral.Levels {
		n += len(qs)
	}
	for _, qs := range r.bank.Technical.Roles {
		n += len(qs)
	}
	return n
}
