package dto

type ProfileRequest struct {
	FullName   string `json:"fullName" validate:"required,max=120"`
	Role       string `json:"role" validate:"required,oneof=Strategist 'Brand Manager' 'Creative Lead' 'Performance Marketing'"`
	Department string `json:"department" validate:"required,max=120"`
}

type CredentialRequest struct {
	APIKey string `json:"apiKey" validate:"required,max=512"`
}

type ViewRequest struct {
	View  string `json:"view" validate:"required,oneof=HOME PROFILE DIRECTORY EMPLOYEE_PROFILE"`
	Email string `json:"email" validate:"omitempty,email"`
}
