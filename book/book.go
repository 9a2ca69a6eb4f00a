package book

// Book is a registry record. ID is assigned by the registry.
type Book struct {
	ID     uint64 `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
}

// Input is the create request payload
type Input struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Envelope wraps every API response body.
// Data holds the payload on success and an error message otherwise.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// Seed returns the sample records a fresh registry starts with
func Seed() []Book {
	return []Book{
		{ID: 1, Title: "The Rust Programming Language", Author: "Steve Klabnik"},
		{ID: 2, Title: "Programming Rust", Author: "Jim Blandy"},
		{ID: 3, Title: "Rust in Action", Author: "Tim McNamara"},
	}
}
