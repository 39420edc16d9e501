package usecase

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageBounds turns a 1-based page into limit and offset.
func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
