package discovery

// PageSize is the number of campaigns shown per browse page.
const PageSize = 9

// TotalPages returns ceil(n / size). A non-positive size yields zero pages.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-based page of items and the total page count.
// A page below 1 is treated as 1; a page past the end is empty.
//
// Changing filters does not reset the caller's page number.
func Paginate[T any](items []T, page, size int) ([]T, int) {
	total := TotalPages(len(items), size)
	if page < 1 {
		page = 1
	}
	if total == 0 || page > total {
		return []T{}, total
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end], total
}
