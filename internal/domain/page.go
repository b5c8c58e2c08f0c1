package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PageRequest is a zero-based page number and page size.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request to sane bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// PageInfo describes where a page sits in the full result set.
type PageInfo struct {
	CurrentPage   int   `json:"currentPage"`
	PageLimit     int   `json:"pageLimit"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// NewPageInfo builds PageInfo from the request and the total row count.
func NewPageInfo(req PageRequest, total int64) PageInfo {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return PageInfo{
		CurrentPage:   req.Page,
		PageLimit:     req.Size,
		TotalPages:    pages,
		TotalElements: total,
	}
}
