package domain

type Book struct {
	ID      int64       `json:"id"`
	Title   string      `json:"title"`
	Authors []AuthorRef `json:"authors,omitempty"`
}

// AuthorRef is an author as listed on a book; Order is the zero-based byline position.
type AuthorRef struct {
	ID        int64  `json:"id"`
	Names     string `json:"names"`
	LastNames string `json:"last_names"`
	Order     int    `json:"order"`
}

// AuthorIDs returns the byline author ids in order.
func (b *Book) AuthorIDs() []int64 {
	ids := make([]int64, 0, len(b.Authors))
	for _, a := range b.Authors {
		ids = append(ids, a.ID)
	}
	return ids
}

// SetAuthors replaces the byline, assigning each author its position.
func (b *Book) SetAuthors(ids []int64) {
	b.Authors = make([]AuthorRef, 0, len(ids))
	for i, id := range ids {
		b.Authors = append(b.Authors, AuthorRef{ID: id, Order: i})
	}
}
