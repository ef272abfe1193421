package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/new/", safeNext("/new/"))
	assert.Equal(t, "/alice/3/?page=2", safeNext("/alice/3/?page=2"))
	assert.Empty(t, safeNext(""))
	assert.Empty(t, safeNext("https://evil.example/"))
	assert.Empty(t, safeNext("//evil.example/"))
	assert.Empty(t, safeNext(`/\evil.example/`))
}

func TestParseID(t *testing.T) {
	id, ok := parseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	for _, raw := range []string{"", "0", "-1", "abc", "99999999999"} {
		_, ok := parseID(raw)
		assert.False(t, ok, raw)
	}
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "/alice/", profileURL("alice"))
	assert.Equal(t, "/alice/7/", postURL("alice", 7))
	assert.Equal(t, "/alice/7/edit/", editURL("alice", 7))
}
