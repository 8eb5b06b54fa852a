package common

import "math"

// PageSize 목록 조회 고정 페이지 크기
const PageSize = 10

// NormalizePage clamps a page number to the 1-based range
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset returns the row offset of a 1-based page.
// Pages whose offset does not fit in an int saturate at math.MaxInt, i.e. past every row.
func Offset(page, size int) int {
	page = NormalizePage(page)
	if size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

// TotalPages returns ceil(total / size)
func TotalPages(total int64, size int) int64 {
	if total <= 0 || size <= 0 {
		return 0
	}
	pages := total / int64(size)
	if total%int64(size) > 0 {
		pages++
	}
	return pages
}
