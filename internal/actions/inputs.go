package actions

// RegisterInput is the sign up form.
type RegisterInput struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" form:"first_name" validate:"required"`
	LastName  string `json:"last_name" form:"last_name" validate:"required"`
	Phone     string `json:"phone" form:"phone" validate:"required"`
	Redirect  string `json:"redirect" form:"redirect"`
}

// LoginInput is the sign in form.
type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Redirect string `json:"redirect" form:"redirect"`
}

// RecoverPasswordInput is the forgot password form.
type RecoverPasswordInput struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// UpdatePasswordInput is the reset password form.
type UpdatePasswordInput struct {
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// UpdateUserMetadataInput is the profile form.
type UpdateUserMetadataInput struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required"`
	LastName  string `json:"last_name" form:"last_name" validate:"required"`
	Phone     string `json:"phone" form:"phone" validate:"required"`
	AvatarURL string `json:"avatar_url" form:"avatar_url" validate:"omitempty,url"`
}

// MedicalHistoryInput is part of UpdateCompleteProfileInput.
type MedicalHistoryInput struct {
	Conditions []string `json:"conditions" validate:"dive,required"`
	Surgeries  []string `json:"surgeries" validate:"dive,required"`
}

// InsuranceInfoInput is part of UpdateCompleteProfileInput.
type InsuranceInfoInput struct {
	Provider     string `json:"provider" validate:"required"`
	PolicyNumber string `json:"policy_number" validate:"required"`
}

// UpdateCompleteProfileInput is the extended profile.
type UpdateCompleteProfileInput struct {
	FirstName                string              `json:"first_name" validate:"required"`
	LastName                 string              `json:"last_name" validate:"required"`
	Phone                    string              `json:"phone" validate:"required"`
	AvatarURL                string              `json:"avatar_url" validate:"required,url"`
	Timezone                 string              `json:"timezone" validate:"required"`
	Language                 string              `json:"language" validate:"required"`
	DateOfBirth              string              `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender                   string              `json:"gender" validate:"required,oneof=M F Other"`
	EmergencyContactName     string              `json:"emergency_contact_name" validate:"required"`
	EmergencyContactPhone    string              `json:"emergency_contact_phone" validate:"required"`
	EmergencyContactRelation string              `json:"emergency_contact_relation" validate:"required"`
	Allergies                []string            `json:"allergies" validate:"dive,required"`
	CurrentMedications       []string            `json:"current_medications" validate:"dive,required"`
	MedicalHistory           MedicalHistoryInput `json:"medical_history"`
	InsuranceInfo            InsuranceInfoInput  `json:"insurance_info"`
	PreferredLanguage        string              `json:"preferred_language" validate:"required"`
	Bio                      string              `json:"bio"`
}
