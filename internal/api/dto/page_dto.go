package dto

import "github.com/myhome/myhome-service/internal/domain"

// PageQuery binds ?page=&size= query parameters.
type PageQuery struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

// PageRequest converts the query to a normalized domain page request.
func (q PageQuery) PageRequest() domain.PageRequest {
	return domain.PageRequest{Page: q.Page, Size: q.Size}.Normalize()
}
