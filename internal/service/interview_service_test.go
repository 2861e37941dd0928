package service

import (
	"context"
	"errors"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/util"
	"interview_prep_backend/pkg/logger"
	"os"
	"testing"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newLocalService() *InterviewService {
	questions := repository.NewQuestionRepository()
	scoring := NewScoringService()
	local := NewLocalEvaluator(questions, scoring)
	return NewInterviewService(repository.NewSessionRepository(), local, local)
}

func ashaProfile() model.UserProfile {
	return model.UserProfile{
		Name:            "Asha",
		Role:            model.RoleBackend,
		ExperienceLevel: model.LevelJunior,
	}
}

func TestCreateSessionStartsInProgress(t *testing.T) {
	svc := newLocalService()

	session, err := svc.CreateSession(context.Background(), ashaProfile())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if session.State != model.StateInProgress {
		t.Errorf("state = %s, want %s", session.State, model.StateInProgress)
	}
	if session.CurrentIndex != 0 {
		t.Errorf("currentIndex = %d, want 0", session.CurrentIndex)
	}
	if len(session.Questions) == 0 {
		t.Fatal("questions must not be empty")
	}
	if session.Questions[0].Type != model.QuestionTechnical {
		t.Errorf("first question type = %s, want technical", session.Questions[0].Type)
	}
}

func TestCreateSessionRejectsInvalidProfile(t *testing.T) {
	svc := newLocalService()

	tests := []struct {
		name    string
		profile model.UserProfile
	}{
		{"missing name", model.UserProfile{Role: model.RoleBackend, ExperienceLevel: model.LevelJunior}},
		{"blank name", model.UserProfile{Name: "   ", Role: model.RoleBackend, ExperienceLevel: model.LevelJunior}},
		{"missing role", model.UserProfile{Name: "Asha", ExperienceLevel: model.LevelJunior}},
		{"missing level", model.UserProfile{Name: "Asha", Role: model.RoleBackend}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateSession(context.Background(), tt.profile); !errors.Is(err, util.ErrInvalidProfile) {
				t.Errorf("err = %v, want ErrInvalidProfile", err)
			}
		})
	}
}

func TestCreateSessionUnknownRoleFallsBackToGenericList(t *testing.T) {
	svc := newLocalService()

	session, err := svc.CreateSession(context.Background(), model.UserProfile{
		Name:            "Asha",
		Role:            "Astronaut",
		ExperienceLevel: "Legendary",
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if len(session.Questions) == 0 {
		t.Fatal("unknown role/level must still get a non-empty default question list")
	}
}

func TestSubmitAnswerScoresAndAdvances(t *testing.T) {
	svc := newLocalService()
	session, _ := svc.CreateSession(context.Background(), ashaProfile())

	updated, record, err := svc.SubmitAnswer(context.Background(), session.ID, "I built a caching layer that reduced latency")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	if record.Score < BaseScore+2 {
		t.Errorf("score = %d, want >= %d for an answer with technical keywords", record.Score, BaseScore+2)
	}
	if record.Feedback == "" {
		t.Error("feedback must not be empty")
	}
	if record.QuestionID != session.Questions[0].ID {
		t.Errorf("answer references question %d, want %d", record.QuestionID, session.Questions[0].ID)
	}
	if updated.CurrentIndex != 1 {
		t.Errorf("currentIndex = %d, want 1", updated.CurrentIndex)
	}
	if len(updated.Answers) != 1 {
		t.Errorf("answers = %d, want 1", len(updated.Answers))
	}
}

func TestSubmitAnswerRejectsWhitespace(t *testing.T) {
	svc := newLocalService()
	session, _ := svc.CreateSession(context.Background(), ashaProfile())

	if _, _, err := svc.SubmitAnswer(context.Background(), session.ID, "   \t\n  "); !errors.Is(err, util.ErrEmptyAnswer) {
		t.Fatalf("err = %v, want ErrEmptyAnswer", err)
	}

	// 会话状态必须原封不动
	after, err := svc.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if after.CurrentIndex != 0 || len(after.Answers) != 0 {
		t.Errorf("session mutated by rejected submission: index=%d answers=%d", after.CurrentIndex, len(after.Answers))
	}
}

func TestSessionInvariantHoldsUntilCompletion(t *testing.T) {
	svc := newLocalService()
	session, _ := svc.CreateSession(context.Background(), ashaProfile())

	total := len(session.Questions)
	for i := 0; i < total; i++ {
		updated, _, err := svc.SubmitAnswer(context.Background(), session.ID,
			"In that situation my task was clear, I took action on the database and as a result latency improved")
		if err != nil {
			t.Fatalf("SubmitAnswer #%d: %v", i+1, err)
		}

		if updated.CurrentIndex != i+1 {
			t.Fatalf("after %d submissions currentIndex = %d", i+1, updated.CurrentIndex)
		}
		if len(updated.Answers) != updated.CurrentIndex {
			t.Fatalf("invariant broken: answers=%d index=%d", len(updated.Answers), updated.CurrentIndex)
		}
		wantCompleted := i+1 == total
		if updated.Completed != wantCompleted {
			t.Fatalf("after %d of %d submissions completed = %v", i+1, total, updated.Completed)
		}
	}

	// 答案严格按提交顺序对应题目顺序
	answers, _ := svc.Answers(session.ID)
	for i, a := range answers {
		if a.QuestionID != session.Questions[i].ID {
			t.Errorf("answer %d references question %d, want %d", i, a.QuestionID, session.Questions[i].ID)
		}
	}

	q, err := svc.CurrentQuestion(session.ID)
	if err != nil {
		t.Fatalf("CurrentQuestion: %v", err)
	}
	if q != nil {
		t.Errorf("completed session still has a current question: %+v", q)
	}

	if _, _, err := svc.SubmitAnswer(context.Background(), session.ID, "one more answer please"); !errors.Is(err, util.ErrSessionCompleted) {
		t.Errorf("submit after completion: err = %v, want ErrSessionCompleted", err)
	}
}

func TestSummaryAggregatesAnswers(t *testing.T) {
	svc := newLocalService()
	session, _ := svc.CreateSession(context.Background(), ashaProfile())

	svc.SubmitAnswer(context.Background(), session.ID, "I built a caching layer that reduced latency")
	svc.SubmitAnswer(context.Background(), session.ID, "no")

	summary, err := svc.Summary(session.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalAnswered != 2 {
		t.Errorf("totalAnswered = %d, want 2", summary.TotalAnswered)
	}
	if summary.AverageScore < float64(MinScore) || summary.AverageScore > float64(MaxScore) {
		t.Errorf("averageScore = %f out of range", summary.AverageScore)
	}
	if summary.Completed {
		t.Error("summary reports completed for an in-progress session")
	}
}

// failingEvaluator 模拟不可用的远端引擎
type failingEvaluator struct{}

func (failingEvaluator) Name() string { return "gemini" }

func (failingEvaluator) GenerateQuestions(context.Context, model.UserProfile) ([]model.QuestionRecord, error) {
	return nil, errors.New("remote unavailable")
}

func (failingEvaluator) EvaluateAnswer(context.Context, model.QuestionRecord, string) (int, string, error) {
	return 0, "", errors.New("remote unavailable")
}

func TestRemoteFailureFallsBackToLocalEngine(t *testing.T) {
	questions := repository.NewQuestionRepository()
	local := NewLocalEvaluator(questions, NewScoringService())
	svc := NewInterviewService(repository.NewSessionRepository(), failingEvaluator{}, local)

	session, err := svc.CreateSession(context.Background(), ashaProfile())
	if err != nil {
		t.Fatalf("CreateSession with failing remote: %v", err)
	}
	if len(session.Questions) == 0 {
		t.Fatal("fallback must produce a non-empty question list")
	}

	_, record, err := svc.SubmitAnswer(context.Background(), session.ID, "I built a caching layer that reduced latency")
	if err != nil {
		t.Fatalf("SubmitAnswer with failing remote: %v", err)
	}
	if record.Score < MinScore || record.Score > MaxScore {
		t.Errorf("fallback score = %d out of range", record.Score)
	}
	if record.Feedback == "" {
		t.Error("fallback feedback must not be empty")
	}
}

func TestEmptyQuestionBankMakesSessionUnusable(t *testing.T) {
	empty := repository.NewQuestionRepositoryWithBank(&model.QuestionBank{})
	local := NewLocalEvaluator(empty, NewScoringService())
	svc := NewInterviewService(repository.NewSessionRepository(), local, local)

	session, err := svc.CreateSession(context.Background(), ashaProfile())
	if !errors.Is(err, util.ErrEmptyQuestionBank) {
		t.Fatalf("err = %v, want ErrEmptyQuestionBank", err)
	}
	if session == nil || session.State != model.StateUnusable {
		t.Fatalf("session state = %+v, want unusable", session)
	}

	if _, _, err := svc.SubmitAnswer(context.Background(), session.ID, "hello there everyone"); !errors.Is(err, util.ErrSessionUnusable) {
		t.Errorf("submit on unusable session: err = %v, want ErrSessionUnusable", err)
	}
}
