// Package scope holds reusable gorm query scopes.
package scope

import "gorm.io/gorm"

// DateRange filters column to the inclusive [from, to] range of date keys.
// Empty bounds are ignored.
func DateRange(column, from, to string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != "" {
			db = db.Where(column+" >= ?", from)
		}
		if to != "" {
			db = db.Where(column+" <= ?", to)
		}
		return db
	}
}

// Overlapping keeps rows whose [startCol, endCol] range shares a day with
// [from, to].
func Overlapping(startCol, endCol, from, to string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(startCol+" <= ?", to).Where(endCol+" >= ?", from)
	}
}

func Active() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true)
	}
}

// VisibleAt keeps global rows (location "") plus those for location.
func VisibleAt(location string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("location = ? OR location = ?", "", location)
	}
}
