package server_test

import (
	"testing"

	"search-indexer/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Address(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{"Port only", "8080", ":8080"},
		{"Host and port", "127.0.0.1:9090", "127.0.0.1:9090"},
		{"Bind all", ":80", ":80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.Address())
		})
	}
}

func TestConfig_PublicPaths(t *testing.T) {
	assert.Equal(t, []string{"/swagger", "/metrics"}, server.Config{MetricsPath: "/metrics"}.PublicPaths())
	assert.Equal(t, []string{"/swagger"}, server.Config{}.PublicPaths())
}
