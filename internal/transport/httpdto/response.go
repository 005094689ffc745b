package httpdto

// Response is the success envelope.
type Response[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      T      `json:"data,omitempty"`
	RequestID string `json:"requestId"`
}

func NewSuccessResponse[T any](message string, data T, requestID string) Response[T] {
	return Response[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID,
	}
}

// MessageResponse is a success envelope without data.
type MessageResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

func NewMessageResponse(message, requestID string) MessageResponse {
	return MessageResponse{Success: true, Message: message, RequestID: requestID}
}

// ErrorResponse is the error envelope. Detail is only filled outside production.
type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
	Detail    string `json:"detail,omitempty"`
}

func NewErrorResponse(message, requestID string) ErrorResponse {
	return ErrorResponse{
		Status:    "error",
		Message:   message,
		RequestID: requestID,
	}
}
