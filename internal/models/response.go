package models

// APIResponse tüm endpoint'lerin ortak zarfı. Success false ise yalnızca
// Error dolu gelir; true ise Data ve Message taşınır, ikisi karışmaz.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse data'yı başarı zarfına sarar.
func SuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ErrorResponse hata mesajını zarfa sarar; Data asla taşımaz.
func ErrorResponse(err string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   err,
	}
}
