package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"+998901234567",
		"998901234567",
		"+14155552671",
		"123456789",
	}
	for _, phone := range valid {
		assert.True(t, ValidatePhone(phone), "expected %q to be valid", phone)
	}

	invalid := []string{
		"",
		"12345678",         // too short
		"+9989012345678901", // too long
		"+998 90 123 45 67", // spaces
		"phone",
		"90-123-45-67",
	}
	for _, phone := range invalid {
		assert.False(t, ValidatePhone(phone), "expected %q to be invalid", phone)
	}
}

func TestValidatorPhoneRule(t *testing.T) {
	type payload struct {
		Phone string `validate:"required,phone"`
	}

	v := NewValidator()
	require.NoError(t, v.Validate(&payload{Phone: "+998901234567"}))

	err := v.Validate(&payload{Phone: "not-a-phone"})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "Phone")
}

// The phone rule must be known to gin's binding engine, not just our
// local validator: binding tags run during ShouldBindJSON and an
// unregistered rule makes the validator panic mid-request.
func TestPhoneRuleViaGinBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type payload struct {
		Phone string `json:"phone" binding:"required,phone"`
	}

	bind := func(body string) error {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var p payload
		return c.ShouldBindJSON(&p)
	}

	require.NotPanics(t, func() {
		assert.NoError(t, bind(`{"phone": "+998901234567"}`))
		assert.Error(t, bind(`{"phone": "not-a-phone"}`))
	})
}
