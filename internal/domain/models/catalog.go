package models

// Competitor is one tracked company inside a category.
type Competitor struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Category is a market domain with its competitor list.
type Category struct {
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	Competitors []Competitor `json:"competitors"`
}
