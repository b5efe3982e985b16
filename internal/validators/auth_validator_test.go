package validators

import (
	"testing"

	"socketBoard/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("drawer@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.org"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("s3cret!pw"))
	assert.False(t, ValidatePassword("short"))
	assert.False(t, ValidatePassword(""))
}

func TestValidateUser(t *testing.T) {
	user := &models.User{Username: "drawer", Email: "drawer@example.com", Password: "s3cret!pw"}
	assert.Empty(t, ValidateUser(user))

	bad := &models.User{Username: "ab", Email: "nope", Password: "short"}
	assert.Len(t, ValidateUser(bad), 3)

	assert.Len(t, ValidateUser(nil), 1)
}
