package identity

import (
	"context"
	"errors"
	"testing"

	"quickshow/internal/users"
)

type fakeUserRepo struct {
	users map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*users.User)}
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *users.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

func createdEvent(id string) Event {
	return Event{
		Type: EventUserCreated,
		Data: EventUser{
			ID:        id,
			FirstName: "Ada",
			LastName:  "Lovelace",
			EmailAddresses: []EmailAddress{
				{EmailAddress: "ada@example.com"},
			},
			ImageURL: "https://img.example.com/ada.png",
		},
	}
}

func TestHandleEventCreatesUserMirror(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if err := svc.HandleEvent(context.Background(), createdEvent("user_abc")); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	user := repo.users["user_abc"]
	if user == nil {
		t.Fatal("user not mirrored")
	}
	if user.Name != "Ada Lovelace" {
		t.Errorf("name = %q", user.Name)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if user.Image != "https://img.example.com/ada.png" {
		t.Errorf("image = %q", user.Image)
	}
}

func TestHandleEventUpdateConvergesOnLatest(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if err := svc.HandleEvent(context.Background(), createdEvent("user_abc")); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	updated := createdEvent("user_abc")
	updated.Type = EventUserUpdated
	updated.Data.FirstName = "Augusta"
	if err := svc.HandleEvent(context.Background(), updated); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if repo.users["user_abc"].Name != "Augusta Lovelace" {
		t.Errorf("name = %q, want updated name", repo.users["user_abc"].Name)
	}
}

func TestHandleEventDeleteRemovesMirror(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if err := svc.HandleEvent(context.Background(), createdEvent("user_abc")); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	deleted := Event{Type: EventUserDeleted, Data: EventUser{ID: "user_abc"}}
	if err := svc.HandleEvent(context.Background(), deleted); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if _, exists := repo.users["user_abc"]; exists {
		t.Error("deleted user must be removed from the mirror")
	}
}

func TestHandleEventRejectsMissingID(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	event := createdEvent("")
	if err := svc.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected validation error for missing id")
	}

	deleted := Event{Type: EventUserDeleted}
	if err := svc.HandleEvent(context.Background(), deleted); err == nil {
		t.Fatal("expected error for delete without id")
	}
}

func TestHandleEventAcksUnknownTypes(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	event := Event{Type: "session.created", Data: EventUser{ID: "user_abc"}}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown event types must be acknowledged, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Error("unknown event types must not touch the mirror")
	}
}
