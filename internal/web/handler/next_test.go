package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
)

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/dashboard"},
		{"/orga/settings", "/orga/settings"},
		{"/profile?tab=password", "/profile?tab=password"},
		{"https://evil.example/", "/dashboard"},
		{"//evil.example/", "/dashboard"},
		{"/\\evil.example", "/dashboard"},
		{"javascript:alert(1)", "/dashboard"},
		{"profile", "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, handler.SafeNext(tt.next, "/dashboard"))
		})
	}
}
