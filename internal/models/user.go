package models

// User is a registered account. Email is unique by convention (checked before insert),
// not by a storage constraint.
type User struct {
	ID           string  `bson:"_id,omitempty" json:"id"`
	Email        string  `bson:"email" json:"email"`
	PasswordHash string  `bson:"password_hash" json:"-"`
	Name         string  `bson:"name" json:"name"`
	PAN          string  `bson:"pan" json:"pan"` // tax id: 5 letters, 4 digits, 1 letter
	CreatedAt    float64 `bson:"created_at,omitempty" json:"-"`
	UpdatedAt    float64 `bson:"updated_at,omitempty" json:"-"`
}
