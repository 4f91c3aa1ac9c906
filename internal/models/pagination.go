package models

type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// HasMore — есть ли страницы после текущей.
func (p Pagination) HasMore() bool { return p.Page < p.PageCount }

type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// ListResponse — конверт списка {data, meta}.
type ListResponse[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// ItemResponse — конверт одиночного ресурса {data}.
type ItemResponse[T any] struct {
	Data T `json:"data"`
}

// EmptyList — пустая, но корректно сформированная страница.
func EmptyList[T any](pageSize int) *ListResponse[T] {
	return &ListResponse[T]{
		Data: []T{},
		Meta: Meta{Pagination: Pagination{Page: 1, PageSize: pageSize}},
	}
}

type ArticleList = ListResponse[Article]
type CategoryList = ListResponse[Category]
type CommentList = ListResponse[Comment]
