package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	data    map[uuid.UUID]*Session
	touched map[uuid.UUID]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{data: map[uuid.UUID]*Session{}, touched: map[uuid.UUID]int{}}
}

func (m *mockRepo) Create(_ context.Context, s *Session) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.LastSeenAt = s.CreatedAt
	m.data[s.ID] = s
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	if s, ok := m.data[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Touch(_ context.Context, id uuid.UUID) error {
	if _, ok := m.data[id]; !ok {
		return fmt.Errorf("session not found")
	}
	m.touched[id]++
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Session, int, error) {
	var out []*Session
	for _, s := range m.data {
		out = append(out, s)
	}
	return out, len(out), nil
}

func TestService_Start(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	sess, err := svc.Start(context.Background(), "website", "Mozilla/5.0", "203.0.113.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID == uuid.Nil {
		t.Error("expected id assigned")
	}
	if sess.Source == nil || *sess.Source != "website" {
		t.Errorf("expected source 'website', got %v", sess.Source)
	}
	if sess.RemoteIP == nil || *sess.RemoteIP != "203.0.113.9" {
		t.Errorf("expected remote ip recorded, got %v", sess.RemoteIP)
	}
}

func TestService_Start_EmptyFieldsStayNil(t *testing.T) {
	svc := NewService(newMockRepo())
	sess, err := svc.Start(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Source != nil || sess.UserAgent != nil || sess.RemoteIP != nil {
		t.Errorf("expected nil optional fields, got %+v", sess)
	}
}

func TestService_Touch(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	sess, _ := svc.Start(context.Background(), "website", "", "")

	if err := svc.Touch(context.Background(), sess.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.touched[sess.ID] != 1 {
		t.Errorf("expected 1 touch, got %d", repo.touched[sess.ID])
	}
}

func TestService_Touch_InvalidID(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Touch(context.Background(), "not-a-uuid"); err == nil {
		t.Error("expected error for unparseable id")
	}
}

func TestService_Touch_UnknownID(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Touch(context.Background(), uuid.NewString()); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestService_Get(t *testing.T) {
	svc := NewService(newMockRepo())
	sess, _ := svc.Start(context.Background(), "website", "", "")
	got, err := svc.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("expected %s, got %s", sess.ID, got.ID)
	}
}
