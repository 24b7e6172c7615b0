package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAvatarRoundTrip(t *testing.T) {
	var u User

	assert.Nil(t, u.Avatar())

	raw := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	u.SetAvatar(raw)
	assert.Equal(t, raw, u.Avatar())

	u.SetAvatar(nil)
	assert.Empty(t, u.AvatarData)
	assert.Nil(t, u.Avatar())
}

func TestUserAvatarIgnoresCorruptData(t *testing.T) {
	u := User{AvatarData: "not-base64!!"}
	assert.Nil(t, u.Avatar())
}
