package models

// Category is a display label persons can be tagged with. A category may sit
// under a super-category through a link table; the link permits many-to-many
// even though the UI typically keeps one super-category per category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SuperCategory is an optional grouping label over categories.
type SuperCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UngroupedKey collects categories with no super-category in grouped listings.
const UngroupedKey = "Other"

// GroupedCategories maps a super-category name (or UngroupedKey) to the
// categories under it, each list ordered by name.
type GroupedCategories map[string][]Category
