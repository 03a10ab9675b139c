package model

// SignUpRequest defines the payload for creating a new user.
// Validation tags enforce data integrity at the entry point.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"omitempty,max=50"`
}

// SignInRequest defines the payload for user authentication.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateEventRequest defines the payload for creating an event.
type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required,max=120"`
	Category    string  `json:"category" validate:"required,max=50"`
	Date        string  `json:"date" validate:"required"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	City        string  `json:"city" validate:"omitempty,max=120"`
	Venue       string  `json:"venue" validate:"omitempty,max=120"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// UpdateEventRequest carries partial event updates. Nil fields stay
// untouched.
type UpdateEventRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=120"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	Date        *string  `json:"date"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	City        *string  `json:"city" validate:"omitempty,max=120"`
	Venue       *string  `json:"venue" validate:"omitempty,max=120"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UpdateProfileRequest carries updates to the caller's own profile.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=50"`
	PhotoURL    *string `json:"photoUrl" validate:"omitempty,url"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// CreateChatMessageRequest is the payload for posting to an event chat.
type CreateChatMessageRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}
