package domain

// AllCategories is the sentinel category meaning "no category filter".
const AllCategories = "all"

type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
