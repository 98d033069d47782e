package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"api 500", &openai.APIError{HTTPStatusCode: 500, Message: "boom"}, true},
		{"api 429", &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}, true},
		{"api 400", &openai.APIError{HTTPStatusCode: 400, Message: "bad request"}, false},
		{"request 503", &openai.RequestError{HTTPStatusCode: 503, Err: errors.New("unavailable")}, true},
		{"reset", errors.New("read tcp: connection reset by peer"), true},
		{"plain", errors.New("invalid api key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.False(t, IsTimeout(context.Canceled))
}

func TestDetermineFileType(t *testing.T) {
	assert.Equal(t, "HTML", DetermineFileType("index.html"))
	assert.Equal(t, "CSS", DetermineFileType("assets/styles.CSS"))
	assert.Equal(t, "Image", DetermineFileType("hero.webp"))
	assert.Equal(t, "Unknown", DetermineFileType("Makefile"))
}
