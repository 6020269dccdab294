package memory

import "bookshelf/internal/domain"

// tables is one consistent copy of every record
type tables struct {
	books      map[int64]domain.Book
	students   map[int64]domain.Student
	posts      map[int64]domain.Post
	nextPostID int64
}

func newTables() *tables {
	return &tables{
		books:      make(map[int64]domain.Book),
		students:   make(map[int64]domain.Student),
		posts:      make(map[int64]domain.Post),
		nextPostID: 1,
	}
}

// clone deep-copies the tables so a session can work on them freely
func (t *tables) clone() *tables {
	c := &tables{
		books:      make(map[int64]domain.Book, len(t.books)),
		students:   make(map[int64]domain.Student, len(t.students)),
		posts:      make(map[int64]domain.Post, len(t.posts)),
		nextPostID: t.nextPostID,
	}
	for id, b := range t.books {
		c.books[id] = b
	}
	for id, s := range t.students {
		c.students[id] = s
	}
	for id, p := range t.posts {
		c.posts[id] = copyPost(p)
	}
	return c
}

// copyPost detaches the content pointer from the stored record
func copyPost(p domain.Post) domain.Post {
	if p.Content != nil {
		c := *p.Content
		p.Content = &c
	}
	return p
}
