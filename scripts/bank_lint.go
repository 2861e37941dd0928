// 题库文件校验脚本
//
// 服务启动时会自动校验题库并在失败时回退内置题库；
// 此脚本用于在修改 configs/questions.yaml 后提前发现问题。
//
// 用法: go run scripts/bank_lint.go [题库文件路径]

package main

import (
	"fmt"
	"interview_prep_backend/internal/model"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	path := "configs/questions.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("无法读取题库文件: %v", err)
	}

	var bank model.QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		log.Fatalf("解析题库 YAML 失败: %v", err)
	}

	if err := bank.Validate(); err != nil {
		log.Fatalf("题库校验失败: %v", err)
	}

	total := len(bank.Behavioral.Common) + len(bank.Technical.Generic)
	for _, qs := range bank.Behavioral.Levels {
		total += len(qs)
	}
	for _, qs := range bank.Technical.Roles {
		total += len(qs)
	}

	fmt.Printf("题库校验通过: %s（共 %d 题，%d 个岗位，%d 个档位）\n",
		path, total, len(bank.Technical.Roles), len(bank.Behavioral.Levels))
}
