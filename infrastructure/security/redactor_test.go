package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecommerce_automation/domain/entities"
)

func TestMaskSecrets(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"login with username=standard_user password=secret_sauce", "login with username=standard_user password=******"},
		{`{"username": "a", "password": "b"}`, `{"username": "a", "password": ******}`},
		{"Password: hunter2, next", "Password: ******, next"},
		{"nothing to hide", "nothing to hide"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskSecrets(tt.in))
	}
}

func TestDescribeUser(t *testing.T) {
	got := DescribeUser(entities.User{Username: "standard_user", Password: "secret_sauce"})
	assert.Equal(t, "{username: standard_user, password: ******}", got)
	assert.NotContains(t, got, "secret_sauce")
	assert.Equal(t, "{username: , password: }", DescribeUser(entities.User{}))
}
