package models

// SortBy — порядок выдачи статей.
type SortBy string

const (
	SortLatest    SortBy = "latest"
	SortOldest    SortBy = "oldest"
	SortTitleAsc  SortBy = "title_asc"
	SortTitleDesc SortBy = "title_desc"
)

var sortParams = map[SortBy]string{
	SortLatest:    "publishedAt:desc",
	SortOldest:    "publishedAt:asc",
	SortTitleAsc:  "title:asc",
	SortTitleDesc: "title:desc",
}

func (s SortBy) Valid() bool {
	_, ok := sortParams[s]
	return ok
}

// SortParam — значение sort[0] для API; false для пустого/неизвестного ключа.
func (s SortBy) SortParam() (string, bool) {
	p, ok := sortParams[s]
	return p, ok
}

// ArticleFilters — состояние фильтров списка статей.
type ArticleFilters struct {
	SearchTerm   string `json:"searchTerm,omitempty"`
	CategoryName string `json:"category,omitempty"`
	SortBy       SortBy `json:"sortBy,omitempty"`
}
