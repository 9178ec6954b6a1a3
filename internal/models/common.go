package models

// ErrorResponse is the error envelope returned by every handler.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse builds an error envelope.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Code: code, Message: message},
	}
}

// PaginationInfo describes one page of a list response.
type PaginationInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginationInfo derives page metadata from a total count.
func NewPaginationInfo(page, limit int, total int64) PaginationInfo {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return PaginationInfo{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
