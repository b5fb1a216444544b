package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationHasParticipant(t *testing.T) {
	c := &Conversation{Participants: []string{"u1", "u2"}}

	assert.True(t, c.HasParticipant("u1"))
	assert.True(t, c.HasParticipant("u2"))
	assert.False(t, c.HasParticipant("u3"))
}

func TestConversationUnreadFor(t *testing.T) {
	c := &Conversation{Participants: []string{"u1", "u2"}}
	assert.Equal(t, 0, c.UnreadFor("u1"), "nil map reads as zero")

	c.UnreadCount = map[string]int{"u2": 3}
	assert.Equal(t, 0, c.UnreadFor("u1"), "missing entry reads as zero")
	assert.Equal(t, 3, c.UnreadFor("u2"))
}
