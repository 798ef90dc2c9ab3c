package controller

// ErrorBody matches the nested error envelope of the wire contract.
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ValidationErrorResponse carries the collected field errors for a 400
// INPUT_ERRORS response.
type ValidationErrorResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
