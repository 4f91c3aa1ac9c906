package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError — ответ API со статусом вне 2xx.
//   - Body — разобранное JSON-тело ошибки (nil, если тело не JSON);
//   - Raw — исходный текст тела;
//   - Message — error.message, затем message, затем текст тела/статуса.
type APIError struct {
	Status     int
	StatusText string
	Message    string
	Body       map[string]any
	Raw        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.StatusText, e.Message)
}

// VendorError — вложенный объект error из тела Strapi: {"error":{"name","message"}}.
func (e *APIError) VendorError() (name, message string, ok bool) {
	obj, ok := e.Body["error"].(map[string]any)
	if !ok {
		return "", "", false
	}

	name, _ = obj["name"].(string)
	message, _ = obj["message"].(string)

	return name, message, true
}

// NewAPIError строит ошибку из буферизованного ответа.
func NewAPIError(resp *Response) *APIError {
	e := &APIError{
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Raw:        string(resp.Body),
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		e.Message = strings.TrimSpace(e.Raw)
		if e.Message == "" {
			e.Message = resp.StatusText
		}

		return e
	}

	e.Body = body

	if _, msg, ok := e.VendorError(); ok && msg != "" {
		e.Message = msg
	} else if msg, ok := body["message"].(string); ok && msg != "" {
		e.Message = msg
	} else {
		e.Message = resp.StatusText
	}

	return e
}
