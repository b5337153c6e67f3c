package identity

// UserMetadata is the free form user data kept by the provider.
type UserMetadata struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}

// AppMetadata is maintained by the provider only.
type AppMetadata struct {
	Provider  string   `json:"provider"`
	Providers []string `json:"providers"`
}

// User is the account record of the provider.
type User struct {
	ID               string       `json:"id"`
	Aud              string       `json:"aud"`
	Role             string       `json:"role"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	EmailConfirmedAt string       `json:"email_confirmed_at,omitempty"`
	ConfirmedAt      string       `json:"confirmed_at,omitempty"`
	LastSignInAt     string       `json:"last_sign_in_at,omitempty"`
	AppMetadata      AppMetadata  `json:"app_metadata"`
	UserMetadata     UserMetadata `json:"user_metadata"`
	CreatedAt        string       `json:"created_at,omitempty"`
	UpdatedAt        string       `json:"updated_at,omitempty"`
	IsAnonymous      bool         `json:"is_anonymous"`
}

// AuthSession is returned by sign up, sign in and refresh.
//
// A sign up that still needs e-mail confirmation has no tokens,
// see HasTokens.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// HasTokens reports whether the session can be used to sign the user in.
func (s *AuthSession) HasTokens() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// RegisterRequest is the input of Client.Register.
type RegisterRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Data     UserMetadata `json:"data"`
}

// LoginRequest is the input of Client.Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MedicalHistory is part of CompleteProfile.
type MedicalHistory struct {
	Conditions []string `json:"conditions"`
	Surgeries  []string `json:"surgeries"`
}

// InsuranceInfo is part of CompleteProfile.
type InsuranceInfo struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
}

// CompleteProfile is sent to the update_complete_profile rpc.
type CompleteProfile struct {
	FirstName                string         `json:"first_name"`
	LastName                 string         `json:"last_name"`
	Phone                    string         `json:"phone"`
	AvatarURL                string         `json:"avatar_url"`
	Timezone                 string         `json:"timezone"`
	Language                 string         `json:"language"`
	DateOfBirth              string         `json:"date_of_birth"`
	Gender                   string         `json:"gender"`
	EmergencyContactName     string         `json:"emergency_contact_name"`
	EmergencyContactPhone    string         `json:"emergency_contact_phone"`
	EmergencyContactRelation string         `json:"emergency_contact_relation"`
	Allergies                []string       `json:"allergies"`
	CurrentMedications       []string       `json:"current_medications"`
	MedicalHistory           MedicalHistory `json:"medical_history"`
	InsuranceInfo            InsuranceInfo  `json:"insurance_info"`
	PreferredLanguage        string         `json:"preferred_language"`
	Bio                      string         `json:"bio"`
}

// Profile is returned by the profile rpc.
type Profile struct {
	ID                  string `json:"id"`
	Role                string `json:"role"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Gender              string `json:"gender"`
	Status              string `json:"status"`
	Language            string `json:"language"`
	Timezone            string `json:"timezone"`
	IsActive            bool   `json:"is_active"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	AvatarURL           string `json:"avatar_url"`
	CreatedAt           string `json:"created_at"`
	ProfileType         string `json:"profile_type"`
	DateOfBirth         string `json:"date_of_birth"`
	LicenseNumber       string `json:"license_number,omitempty"`
	Specialization      string `json:"specialization,omitempty"`
	MedicalRecordNumber string `json:"medical_record_number,omitempty"`
}

// PermissionUser is the user_data part of Permissions.
type PermissionUser struct {
	Role          string `json:"role"`
	Email         string `json:"email"`
	UserID        string `json:"user_id"`
	JWTRole       string `json:"jwt_role"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	RoleActive    bool   `json:"role_active"`
	ProfileType   string `json:"profile_type"`
	ProfileActive bool   `json:"profile_active"`
}

// Permissions is returned by the permissions rpc.
type Permissions struct {
	UserData            PermissionUser `json:"user_data"`
	Permissions         []string       `json:"permissions"`
	IsSuperAdmin        bool           `json:"is_super_admin"`
	CanReadServices     bool           `json:"can_read_services"`
	TotalPermissions    int            `json:"total_permissions"`
	CanReadAppointments bool           `json:"can_read_appointments"`
}
