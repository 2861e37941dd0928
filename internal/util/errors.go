package util

import "errors"

var (
	ErrInvalidProfile    = errors.New("profile is missing required fields")
	ErrEmptyQuestionBank = errors.New("question bank yielded no questions")
	ErrEmptyAnswer       = errors.New("answer text is empty")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionCompleted  = errors.New("session already completed")
	ErrSessionUnusable   = errors.New("session is unusable")
	ErrSessionConflict   = errors.New("conflicting answer submission")
)
