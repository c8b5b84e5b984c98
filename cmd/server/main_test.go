package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8099", "http://localhost:8099/api/health"},
		{"0.0.0.0:8080", "http://localhost:8080/api/health"},
		{"[::]:8080", "http://localhost:8080/api/health"},
		{"127.0.0.1:8080", "http://127.0.0.1:8080/api/health"},
		{"adzan.local:9000", "http://adzan.local:9000/api/health"},
		{"[::1]:8080", "http://[::1]:8080/api/health"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := healthURL(tt.addr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := healthURL("8099")
	assert.Error(t, err)
}
