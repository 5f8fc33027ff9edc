package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/abhisek/syllogiz/internal/store"
)

// fakeEventRepo records appends; the read methods are never called.
type fakeEventRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, data)
	return nil
}

func TestRecording_AppendsEvent(t *testing.T) {
	repo := &fakeEventRepo{}
	log, _ := test.NewNullLogger()
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"name":"a","age":2}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 7},
	})
	p := WithRecording(mock, ProviderMock, repo, log)

	ctx := WithPurpose(context.Background(), PurposeDebrief)
	if _, err := p.Generate(ctx, UserRequest("be brief", "run summary", testSchema(), 64)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Provider != ProviderMock || ev.Model != "mock" || ev.Purpose != PurposeDebrief {
		t.Fatalf("event = %+v", ev)
	}
	if !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 7 {
		t.Fatalf("event = %+v", ev)
	}
	for _, want := range []string{"[system]\nbe brief", "[user]\nrun summary", "[schema: test-object]"} {
		if !strings.Contains(ev.RequestBody, want) {
			t.Fatalf("request body missing %q:\n%s", want, ev.RequestBody)
		}
	}
}

func TestRecording_FailureIsRecordedAndLogged(t *testing.T) {
	repo := &fakeEventRepo{}
	log, hook := test.NewNullLogger()
	p := WithRecording(NewMockProvider(), ProviderMock, repo, log)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("events = %+v", repo.events)
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %+v", e)
	}
}

func TestRecording_RepoErrorDoesNotFailRequest(t *testing.T) {
	repo := &fakeEventRepo{err: errors.New("db locked")}
	log, hook := test.NewNullLogger()
	p := WithRecording(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, repo, log)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e := hook.LastEntry(); e == nil || e.Message != "failed to record llm request" {
		t.Fatalf("expected record failure to be logged, got %+v", e)
	}
}

func TestRecording_NilRepo(t *testing.T) {
	log, _ := test.NewNullLogger()
	p := WithRecording(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, nil, log)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecording_TagsDrillSession(t *testing.T) {
	repo := &fakeEventRepo{}
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"name":"a","age":2}`)})
	p := WithRecording(mock, ProviderMock, repo, log)

	ctx := WithSession(WithPurpose(context.Background(), PurposeDebrief), "run-42")
	if _, err := p.Generate(ctx, UserRequest("", "summary", testSchema(), 64)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].SessionID != "run-42" {
		t.Fatalf("events = %+v", repo.events)
	}
	if e := hook.LastEntry(); e == nil || e.Data["session_id"] != "run-42" {
		t.Fatalf("log entry missing session_id: %+v", e)
	}

	if got := SessionFrom(context.Background()); got != "" {
		t.Errorf("SessionFrom(empty) = %q", got)
	}
}
