package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name  string
		model interface{ TableName() string }
		want  string
	}{
		{"user", User{}, "users"},
		{"customer", Customer{}, "customers"},
		{"channel", Channel{}, "channels"},
		{"store", Store{}, "stores"},
		{"order", Order{}, "orders"},
		{"history entry", HistoryEntry{}, "order_history"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.model.TableName())
		})
	}
}

func TestUserPasswordHashIsNotSerialized(t *testing.T) {
	user := User{
		ID:           1,
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$secret",
	}

	body, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(body), "secret")
	assert.NotContains(t, string(body), "password")
	assert.Contains(t, string(body), `"email":"ana@example.com"`)
}
