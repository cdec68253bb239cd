package handlers

import "github.com/gin-gonic/gin"

// errorBody builds the JSON error envelope shared by every failure path.
func errorBody(message string, details interface{}) gin.H {
	body := gin.H{
		"ok":    false,
		"error": message,
	}
	if details != nil {
		body["details"] = details
	}
	return body
}
