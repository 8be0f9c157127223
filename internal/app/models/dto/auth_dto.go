package dto

// LoginRequest is the banker login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"banker@loanflow.app"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int    `json:"expires_in" example:"3600"`
}
