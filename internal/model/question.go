package model

import (
	"fmt"
	"strings"
)

// QuestionType 题目类型
type QuestionType string

const (
	QuestionBehavioral QuestionType = "behavioral"
	QuestionTechnical  QuestionType = "technical"
)

// QuestionRecord 单个面试题。题库持有原始数据，向会话返回副本，
// 题目文本不会引用用户姓名。
// swagger:model QuestionRecord
type QuestionRecord struct {
	ID       int          `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Category string       `json:"category"`
}

// BankQuestion 题库文件中的一道题（类型由所在段落决定）
type BankQuestion struct {
	Text     string `yaml:"text"`
	Category string `yaml:"category"`
}

// BehavioralBank 行为面题目：所有岗位共享，按经验档位追加
type BehavioralBank struct {
	Common []BankQuestion            `yaml:"common"`
	Levels map[string][]BankQuestion `yaml:"levels"`
}

// TechnicalBank 技术面题目：按岗位区分，未识别岗位退回 generic
type TechnicalBank struct {
	Generic []BankQuestion            `yaml:"generic"`
	Roles   map[string][]BankQuestion `yaml:"roles"`
}

// QuestionBank 完整题库，可由 configs/questions.yaml 整体覆盖
type QuestionBank struct {
	Behavioral BehavioralBank `yaml:"behavioral"`
	Technical  TechnicalBank  `yaml:"technical"`
}

// Validate 检查题库结构是否满足"任意岗位×档位都能组出非空题目列表"的约定
func (b *QuestionBank) Validate() error {
	if len(b.Technical.Generic) == 0 {
		return fmt.Errorf("technical.generic 不能为空")
	}
	if len(b.Behavioral.Common) == 0 {
		return fmt.Errorf("behavioral.common 不能为空")
	}

	check := func(section string, qs []BankQuestion) error {
		for i, q := range qs {
			if strings.TrimSpace(q.Text) == "" {
				return fmt.Errorf("%s 第 %d 题缺少 text", section, i+1)
			}
		}
		return nil
	}

	if err := check("behavioral.common", b.Behavioral.Common); err != nil {
		return err
	}
	for level, qs := range b.Behavioral.Levels {
		if err := check("behavioral.levels."+level, qs); err != nil {
			return err
		}
	}
	if err := check("technical.generic", b.Technical.Generic); err != nil {
		return err
	}
	for role, qs := range b.Technical.Roles {
		if len(qs) == 0 {
			return fmt.Errorf("technical.roles.%s 不能为空", role)
		}
		if err := check("technical.roles."+role, qs); err != nil {
			return err
		}
	}

	return nil
}
