package models

import "time"

// Ad represents a livestock listing
type Ad struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	Category          string     `json:"category"`
	City              string     `json:"city"`
	Description       string     `json:"description"`
	Breed             string     `json:"breed"`
	Gender            string     `json:"gender"`
	Price             FlexString `json:"price_pkr"`
	Age               FlexString `json:"age"`
	Weight            FlexString `json:"weight"`
	IsVaccinated      bool       `json:"is_vaccinated"`
	DeliveryAvailable bool       `json:"delivery_available"`
	Phone             string     `json:"phone"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
}

// AdImage represents one stored image of an ad. Path holds a
// storage-relative key; ImageURL, when set, is an absolute URL and
// takes precedence during resolution.
type AdImage struct {
	ID        string    `json:"id"`
	AdID      string    `json:"ad_id"`
	Path      string    `json:"path"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// AdInsert is the payload for creating an ad
type AdInsert struct {
	UserID            string   `json:"user_id"`
	Title             string   `json:"title"`
	Category          string   `json:"category"`
	City              string   `json:"city"`
	Description       string   `json:"description"`
	Breed             string   `json:"breed"`
	Gender            string   `json:"gender"`
	Price             *int64   `json:"price_pkr,omitempty"`
	Age               *float64 `json:"age,omitempty"`
	Weight            *float64 `json:"weight,omitempty"`
	IsVaccinated      bool     `json:"is_vaccinated"`
	DeliveryAvailable bool     `json:"delivery_available"`
	Phone             string   `json:"phone"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

// AdUpdate is a partial update; nil fields are left unchanged
type AdUpdate struct {
	Title             *string  `json:"title,omitempty"`
	Category          *string  `json:"category,omitempty"`
	City              *string  `json:"city,omitempty"`
	Description       *string  `json:"description,omitempty"`
	Breed             *string  `json:"breed,omitempty"`
	Gender            *string  `json:"gender,omitempty"`
	Price             *int64   `json:"price_pkr,omitempty"`
	Age               *float64 `json:"age,omitempty"`
	Weight            *float64 `json:"weight,omitempty"`
	IsVaccinated      *bool    `json:"is_vaccinated,omitempty"`
	DeliveryAvailable *bool    `json:"delivery_available,omitempty"`
	Phone             *string  `json:"phone,omitempty"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

// AdImageInsert is the payload for recording an uploaded image
type AdImageInsert struct {
	AdID     string `json:"ad_id"`
	Path     string `json:"path"`
	ImageURL string `json:"image_url,omitempty"`
}

// ImageUpload carries raw image bytes received from a posting client
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// AdWithCover pairs an ad with its resolved cover image URL, if any
type AdWithCover struct {
	Ad       Ad      `json:"ad"`
	CoverURL *string `json:"cover_url,omitempty"`
}

// AdDetail pairs an ad with all of its resolved image URLs
type AdDetail struct {
	Ad        Ad       `json:"ad"`
	ImageURLs []string `json:"image_urls"`
}

// Favorite represents a user's saved ad
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AdID      string    `json:"ad_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Chat represents a buyer/seller conversation scoped to one ad
type Chat struct {
	ID        string    `json:"id"`
	AdID      string    `json:"ad_id"`
	BuyerID   string    `json:"buyer_id"`
	SellerID  string    `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a single chat message
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile represents a user's profile record
type Profile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	DOB       string    `json:"dob"`
	City      string    `json:"city"`
	PushToken *string   `json:"push_token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpsert is an insert-or-update payload keyed by user id;
// nil fields keep their stored value
type ProfileUpsert struct {
	ID        string  `json:"id"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	DOB       *string `json:"dob,omitempty"`
	City      *string `json:"city,omitempty"`
	PushToken *string `json:"push_token,omitempty"`
}
