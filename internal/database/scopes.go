package database

import (
	"gorm.io/gorm"

	"github.com/aoyagi/tasktracker/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// DateRange restricts a query to an inclusive ISO day range on the given
// column. Empty bounds are left open.
func DateRange(column, start, end string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != "" {
			db = db.Where(column+" >= ?", start)
		}
		if end != "" {
			db = db.Where(column+" <= ?", end)
		}
		return db
	}
}
