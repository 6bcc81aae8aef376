package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	assert.True(t, Authorize("admin", "admin", "financeiro"))
	assert.True(t, Authorize("financeiro", "admin", "financeiro"))
	assert.False(t, Authorize("gestor", "admin", "financeiro"))
	assert.False(t, Authorize("user", "admin"))
}

func TestAuthorizeDeniesEmpty(t *testing.T) {
	assert.False(t, Authorize("", "admin"))
	assert.False(t, Authorize("admin"), "empty allowed list denies")
}
