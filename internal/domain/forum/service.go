package forum

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"newleash/internal/apperror"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) CreateThread(ctx context.Context, authorID, title, body string) (Thread, error) {
	if strings.TrimSpace(authorID) == "" {
		return Thread{}, apperror.Unauthenticated("")
	}

	now := s.now()
	t := Thread{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     strings.TrimSpace(title),
		Body:      strings.TrimSpace(body),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validateThread(t); err != nil {
		return Thread{}, err
	}

	if err := s.repo.CreateThread(ctx, t); err != nil {
		return Thread{}, err
	}
	return t, nil
}

type UpdateThreadInput struct {
	Title *string
	Body  *string
}

func (s *Service) UpdateThread(ctx context.Context, id, callerID string, in UpdateThreadInput) (Thread, error) {
	t, err := s.repo.GetThread(ctx, id)
	if err != nil {
		return Thread{}, err
	}
	if t.AuthorID != callerID {
		return Thread{}, apperror.Forbidden("only the author can edit this thread")
	}

	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Body != nil {
		t.Body = strings.TrimSpace(*in.Body)
	}
	if err := validateThread(t); err != nil {
		return Thread{}, err
	}

	t.UpdatedAt = s.now()
	if err := s.repo.UpdateThread(ctx, t); err != nil {
		return Thread{}, err
	}
	return t, nil
}

func (s *Service) DeleteThread(ctx context.Context, id, callerID string) (Thread, error) {
	t, err := s.repo.GetThread(ctx, id)
	if err != nil {
		return Thread{}, err
	}
	if t.AuthorID != callerID {
		return Thread{}, apperror.Forbidden("only the author can delete this thread")
	}
	if err := s.repo.DeleteThread(ctx, id); err != nil {
		return Thread{}, err
	}
	return t, nil
}

func (s *Service) GetThread(ctx context.Context, id string) (Thread, error) {
	return s.repo.GetThread(ctx, strings.TrimSpace(id))
}

func (s *Service) ListThreads(ctx context.Context) ([]Thread, error) {
	return s.repo.ListThreads(ctx)
}

func (s *Service) AddComment(ctx context.Context, threadID, authorID, body string) (Comment, error) {
	if strings.TrimSpace(authorID) == "" {
		return Comment{}, apperror.Unauthenticated("")
	}

	body = strings.TrimSpace(body)
	if body == "" || utf8.RuneCountInString(body) > MaxCommentBodyLen {
		return Comment{}, apperror.Invalid("body", "comment must be 1-5000 characters")
	}

	now := s.now()
	c := Comment{
		ID:        uuid.NewString(),
		ThreadID:  strings.TrimSpace(threadID),
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return Comment{}, err
	}
	return c, nil
}

// DeleteComment: solo el autor del comment.
func (s *Service) DeleteComment(ctx context.Context, id, callerID string) (Comment, error) {
	c, err := s.repo.GetComment(ctx, id)
	if err != nil {
		return Comment{}, err
	}
	if c.AuthorID != callerID {
		return Comment{}, apperror.Forbidden("only the author can delete this comment")
	}
	if err := s.repo.DeleteComment(ctx, id); err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) ListComments(ctx context.Context, threadID string) ([]Comment, error) {
	return s.repo.ListComments(ctx, threadID)
}

func validateThread(t Thread) error {
	if n := utf8.RuneCountInString(t.Title); n == 0 || n > MaxTitleLen {
		return apperror.Invalid("title", "title must be 1-200 characters")
	}
	if n := utf8.RuneCountInString(t.Body); n == 0 || n > MaxThreadBodyLen {
		return apperror.Invalid("body", "body must be 1-10000 characters")
	}
	return nil
}
