package server_test

import (
	"testing"

	"lead-reconciler/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidStore(t *testing.T) {
	tests := []struct {
		name  string
		store string
		want  bool
	}{
		{"Memory", server.StoreMemory, true},
		{"MySQL", server.StoreMySQL, true},
		{"Invalid", "postgres", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Store: tt.store}
			assert.Equal(t, tt.want, c.IsValidStore())
		})
	}
}
