package domain

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 50

// Pageable addresses one page of a listing
type Pageable struct {
	Page int
	Size int
}

// FirstPage returns page 0 with the given size
func FirstPage(size int) Pageable {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Pageable{Page: 0, Size: size}
}

// Next returns the following page
func (p Pageable) Next() Pageable {
	return Pageable{Page: p.Page + 1, Size: p.Size}
}

// Previous returns the preceding page, never below zero
func (p Pageable) Previous() Pageable {
	if p.Page == 0 {
		return p
	}
	return Pageable{Page: p.Page - 1, Size: p.Size}
}

// Page is the server's pagination envelope
type Page[T any] struct {
	Content          []T  `json:"content"`
	Last             bool `json:"last"`
	First            bool `json:"first"`
	Empty            bool `json:"empty"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	Number           int  `json:"number"`
	Size             int  `json:"size"`
	NumberOfElements int  `json:"numberOfElements"`
}

// Pageable returns the address of this page
func (p Page[T]) Pageable() Pageable {
	return Pageable{Page: p.Number, Size: p.Size}
}
