package models

// Category is the server-maintained set of valid product category tags.
type Category struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"unique;not null" json:"name"`
	Image string `json:"image"`
}
