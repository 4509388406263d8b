package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"fullName" validate:"required,max=120"`
	Role     string `json:"role" validate:"omitempty,oneof=Strategist 'Brand Manager' 'Creative Lead' 'Performance Marketing'"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}
