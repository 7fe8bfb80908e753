package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Plate string `json:"plate"`
	Year  int    `json:"year"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "nested payload",
			key:      "vehicle",
			body:     `{"vehicle": {"plate": "ABC-123", "year": 2022}}`,
			expected: bindTarget{Plate: "ABC-123", Year: 2022},
		},
		{
			name:     "flat payload",
			key:      "vehicle",
			body:     `{"plate": "XYZ-987", "year": 2019}`,
			expected: bindTarget{Plate: "XYZ-987", Year: 2019},
		},
		{
			name:     "missing key falls back to flat",
			key:      "vehicle",
			body:     `{"other": 1, "plate": "JKL-456", "year": 2021}`,
			expected: bindTarget{Plate: "JKL-456", Year: 2021},
		},
		{
			name:        "type mismatch",
			key:         "vehicle",
			body:        `{"plate": "ABC-123", "year": "new"}`,
			expectError: true,
		},
		{
			name:        "nested key with wrong shape",
			key:         "vehicle",
			body:        `{"vehicle": "not an object"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
