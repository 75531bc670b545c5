package idea

import "time"

// Idea is a posted idea. Content is sanitized on write, so reads serve it
// verbatim.
type Idea struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}
