package models

// All returns every model for AutoMigrate.
func All() []any {
	return []any{
		&Setting{},
		&Doctor{},
		&Location{},
		&Schedule{},
	}
}
