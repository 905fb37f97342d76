package models

// Allocation maps sector name to a percentage. Percentages are not required to sum to 100.
type Allocation struct {
	ID        string             `bson:"_id,omitempty" json:"-"`
	UserEmail string             `bson:"user_email" json:"-"`
	Sectors   map[string]float64 `bson:"sectors" json:"sectors"`
	CreatedAt float64            `bson:"created_at,omitempty" json:"-"`
}
