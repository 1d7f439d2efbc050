package responses

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Result  interface{} `json:"result"`
}

func Send(c *fiber.Ctx, status int, message string, result interface{}) error {
	return c.Status(status).JSON(APIResponse{
		Status:  status,
		Message: message,
		Result:  result,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return Send(c, status, message, nil)
}

// Paged is the result body of list endpoints.
type Paged struct {
	Items       interface{} `json:"items"`
	CurrentPage int64       `json:"currentPage"`
	TotalPages  int64       `json:"totalPages"`
	TotalItems  int64       `json:"totalItems"`
}
