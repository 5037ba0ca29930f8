package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinioStore_PublicURL(t *testing.T) {
	s := &MinioStore{bucket: "prompts", publicURL: "https://cdn.example.com/"}
	assert.Equal(t,
		"https://cdn.example.com/prompts/prompt-covers/u1-1700000000000.png",
		s.PublicURL("prompt-covers/u1-1700000000000.png"),
	)
}
