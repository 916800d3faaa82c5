package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Role       string `json:"role" binding:"required,oneof=EMPLOYEE MANAGER"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	EmployeeID  string `json:"employee_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}
