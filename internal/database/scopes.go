package database

import (
	"gorm.io/gorm"
)

// Paginate applies an offset/limit window to a GORM query. A non-positive
// limit leaves the query unbounded.
func Paginate(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Offset(offset).Limit(limit)
	}
}

// NotArchived restricts a query to rows whose archived flag is false.
func NotArchived(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".archived = ?", false)
	}
}
