// internal/app/store/storeutil/storeutil.go
package storeutil

import "go.mongodb.org/mongo-driver/mongo/options"

// Page size bounds for admin listings.
const (
	DefaultLimit int64 = 20
	MaxLimit     int64 = 100
)

// Clamp normalizes a requested limit and 1-based page.
func Clamp(limit, page int64) (int64, int64) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page <= 0 {
		page = 1
	}
	return limit, page
}

// Paginate returns *options.FindOptions with skip/limit given a 1-based page.
func Paginate(limit, page int64) *options.FindOptions {
	limit, page = Clamp(limit, page)
	return options.Find().SetLimit(limit).SetSkip((page - 1) * limit)
}

// Pages returns how many pages of size limit hold total items (at least 1).
func Pages(total, limit int64) int64 {
	limit, _ = Clamp(limit, 1)
	if total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
