package forum

import "time"

type Thread struct {
	ID       string
	AuthorID string
	Title    string
	Body     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID       string
	ThreadID string
	AuthorID string
	Body     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	MaxTitleLen       = 200
	MaxThreadBodyLen  = 10000
	MaxCommentBodyLen = 5000
)
