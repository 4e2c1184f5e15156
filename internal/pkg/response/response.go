package response

import "github.com/gin-gonic/gin"

// envelope is the single JSON shape every endpoint answers with:
// {success, data} on the happy path, {success, error{code,message}}
// otherwise. Frontends switch on error.code, message is for humans.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, envelope{Success: true, Data: data})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, envelope{
		Success: false,
		Error:   &errorBody{Code: code, Message: message},
	})
}

// ValidationFailed carries per-field messages from the validator so
// forms can attach them to inputs.
func ValidationFailed(c *gin.Context, statusCode int, message string, fields map[string]string) {
	c.JSON(statusCode, envelope{
		Success: false,
		Error:   &errorBody{Code: "VALIDATION_ERROR", Message: message, Fields: fields},
	})
}
