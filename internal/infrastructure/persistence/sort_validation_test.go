package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder(" asc "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder("; DROP TABLE sales"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"allowed field", "total_amount", "total_amount"},
		{"trimmed", "  sold_at ", "sold_at"},
		{"unknown falls back", "password_hash", "created_at"},
		{"injection falls back", "sold_at; DROP TABLE sales", "created_at"},
		{"empty falls back", "", "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.field, SaleSortFields, "created_at"))
		})
	}
}
