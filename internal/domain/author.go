package domain

// Author is a catalog author. Books are ordered by the author's position on each book.
type Author struct {
	ID             int64     `json:"id"`
	Names          string    `json:"names"`
	LastNames      string    `json:"last_names"`
	Identification string    `json:"identification,omitempty"`
	Photo          string    `json:"photo,omitempty"`
	Books          []BookRef `json:"books,omitempty"`
}

// FullName joins names and last names the way every author DTO displays them.
func (a *Author) FullName() string {
	return a.Names + " " + a.LastNames
}

// HasPhoto reports whether a photo URL is set.
func (a *Author) HasPhoto() bool {
	return a.Photo != ""
}

type BookRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
