package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat binds the request body to obj, accepting either a nested
// payload under the given key (e.g. {"lease": {...}}) or the flat form
// ({...}). Older back-office clients send the nested shape; newer ones send
// flat JSON.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
	}
	// Restore body for any later binding
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &nested); err == nil {
		if val, ok := nested[key]; ok {
			return json.Unmarshal(val, obj)
		}
	}

	return json.Unmarshal(bodyBytes, obj)
}
