package forum

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"newleash/internal/apperror"
)

type testRepo struct {
	threads  map[string]Thread
	comments map[string]Comment
}

func newTestRepo() *testRepo {
	return &testRepo{threads: map[string]Thread{}, comments: map[string]Comment{}}
}

func (r *testRepo) CreateThread(ctx context.Context, t Thread) error {
	r.threads[t.ID] = t
	return nil
}

func (r *testRepo) UpdateThread(ctx context.Context, t Thread) error {
	if _, ok := r.threads[t.ID]; !ok {
		return apperror.NotFound("thread", t.ID)
	}
	r.threads[t.ID] = t
	return nil
}

func (r *testRepo) DeleteThread(ctx context.Context, id string) error {
	delete(r.threads, id)
	for cid, c := range r.comments {
		if c.ThreadID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

func (r *testRepo) GetThread(ctx context.Context, id string) (Thread, error) {
	t, ok := r.threads[id]
	if !ok {
		return Thread{}, apperror.NotFound("thread", id)
	}
	return t, nil
}

func (r *testRepo) ListThreads(ctx context.Context) ([]Thread, error) {
	out := make([]Thread, 0, len(r.threads))
	for _, t := range r.threads {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) CreateComment(ctx context.Context, c Comment) error {
	if _, ok := r.threads[c.ThreadID]; !ok {
		return apperror.NotFound("thread", c.ThreadID)
	}
	r.comments[c.ID] = c
	return nil
}

func (r *testRepo) DeleteComment(ctx context.Context, id string) error {
	delete(r.comments, id)
	return nil
}

func (r *testRepo) GetComment(ctx context.Context, id string) (Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return Comment{}, apperror.NotFound("comment", id)
	}
	return c, nil
}

func (r *testRepo) ListComments(ctx context.Context, threadID string) ([]Comment, error) {
	out := make([]Comment, 0)
	for _, c := range r.comments {
		if c.ThreadID == threadID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, repo
}

func TestThreads_CreateValidateAndOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.CreateThread(ctx, "u1", " Adopting a senior dog ", "Tips?")
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if first.Title != "Adopting a senior dog" {
		t.Errorf("title = %q", first.Title)
	}
	second, _ := svc.CreateThread(ctx, "u2", "Second", "Body")

	list, _ := svc.ListThreads(ctx)
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("threads not newest-first: %v", list)
	}

	if _, err := svc.CreateThread(ctx, "u1", "", "body"); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("err = %v, want invalid", err)
	}
	if _, err := svc.CreateThread(ctx, "u1", strings.Repeat("x", 201), "body"); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("err = %v, want invalid", err)
	}
	if _, err := svc.CreateThread(ctx, "", "t", "b"); !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("err = %v, want unauthenticated", err)
	}
}

func TestThreads_AuthorOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	th, _ := svc.CreateThread(ctx, "u1", "Title", "Body")

	title := "Edited"
	if _, err := svc.UpdateThread(ctx, th.ID, "u2", UpdateThreadInput{Title: &title}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	got, err := svc.UpdateThread(ctx, th.ID, "u1", UpdateThreadInput{Title: &title})
	if err != nil {
		t.Fatalf("UpdateThread: %v", err)
	}
	if got.Title != "Edited" || got.Body != "Body" || !got.UpdatedAt.After(th.UpdatedAt) {
		t.Errorf("unexpected thread: %+v", got)
	}

	if _, err := svc.DeleteThread(ctx, th.ID, "u2"); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestComments_ThreadMustExistAndCascade(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.AddComment(ctx, "missing", "u1", "hi"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}

	th, _ := svc.CreateThread(ctx, "u1", "Title", "Body")
	c1, _ := svc.AddComment(ctx, th.ID, "u2", "first")
	c2, _ := svc.AddComment(ctx, th.ID, "u1", "second")

	list, _ := svc.ListComments(ctx, th.ID)
	if len(list) != 2 || list[0].ID != c1.ID || list[1].ID != c2.ID {
		t.Errorf("comments not oldest-first: %v", list)
	}

	// El autor del thread no puede borrar comments ajenos.
	if _, err := svc.DeleteComment(ctx, c1.ID, "u1"); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if _, err := svc.DeleteComment(ctx, c1.ID, "u2"); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	if _, err := svc.AddComment(ctx, th.ID, "u2", "   "); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("err = %v, want invalid", err)
	}

	if _, err := svc.DeleteThread(ctx, th.ID, "u1"); err != nil {
		t.Fatalf("DeleteThread: %v", err)
	}
	if len(repo.comments) != 0 {
		t.Errorf("comments left after thread deletion: %d", len(repo.comments))
	}
}
