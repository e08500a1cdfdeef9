package memory

import (
	"context"
	"sort"

	"newleash/internal/apperror"
	"newleash/internal/domain/forum"
)

type forumRepo struct {
	s *Store
}

func (r *forumRepo) CreateThread(ctx context.Context, t forum.Thread) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[t.AuthorID]; !ok {
		return apperror.NotFound("profile", t.AuthorID)
	}
	r.s.threads[t.ID] = t
	return nil
}

func (r *forumRepo) UpdateThread(ctx context.Context, t forum.Thread) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.threads[t.ID]; !ok {
		return apperror.NotFound("thread", t.ID)
	}
	r.s.threads[t.ID] = t
	return nil
}

func (r *forumRepo) DeleteThread(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.threads[id]; !ok {
		return apperror.NotFound("thread", id)
	}
	r.s.deleteThreadLocked(id)
	return nil
}

func (r *forumRepo) GetThread(ctx context.Context, id string) (forum.Thread, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.threads[id]
	if !ok {
		return forum.Thread{}, apperror.NotFound("thread", id)
	}
	return t, nil
}

func (r *forumRepo) ListThreads(ctx context.Context) ([]forum.Thread, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]forum.Thread, 0, len(r.s.threads))
	for _, t := range r.s.threads {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *forumRepo) CreateComment(ctx context.Context, c forum.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.threads[c.ThreadID]; !ok {
		return apperror.NotFound("thread", c.ThreadID)
	}
	if _, ok := r.s.profiles[c.AuthorID]; !ok {
		return apperror.NotFound("profile", c.AuthorID)
	}
	r.s.comments[c.ID] = c
	return nil
}

func (r *forumRepo) DeleteComment(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return apperror.NotFound("comment", id)
	}
	delete(r.s.comments, id)
	return nil
}

func (r *forumRepo) GetComment(ctx context.Context, id string) (forum.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return forum.Comment{}, apperror.NotFound("comment", id)
	}
	return c, nil
}

func (r *forumRepo) ListComments(ctx context.Context, threadID string) ([]forum.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]forum.Comment, 0)
	for _, c := range r.s.comments {
		if c.ThreadID == threadID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
