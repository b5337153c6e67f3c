// Package models contains the database models of the portal.
package models

// Setting is a named JSON document, see controller/setting.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:128"`
	Value []byte `gorm:"type:blob"`
}
