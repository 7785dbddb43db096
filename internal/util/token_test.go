package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmo-lab/projecthub/dao/model"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 1, 24)
	msg := &JWTMessage{
		UserID:   42,
		Username: "pm.lee",
		Role:     model.RoleProjectManager,
	}

	access, refresh, err := tm.CreateTokens(msg)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	decoded, err := tm.CheckToken(access)
	require.NoError(t, err)
	assert.Equal(t, msg.UserID, decoded.UserID)
	assert.Equal(t, msg.Username, decoded.Username)
	assert.Equal(t, msg.Role, decoded.Role)

	decoded, err = tm.CheckRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, msg.UserID, decoded.UserID)
}

func TestTokenSecretsAreNotInterchangeable(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 1, 24)

	access, refresh, err := tm.CreateTokens(&JWTMessage{UserID: 7, Username: "x", Role: model.RoleTeamMember})
	require.NoError(t, err)

	_, err = tm.CheckToken(refresh)
	assert.Error(t, err, "refresh token must not pass access validation")

	_, err = tm.CheckRefreshToken(access)
	assert.Error(t, err, "access token must not pass refresh validation")
}

func TestCheckTokenRejectsWrongSecret(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 1, 24)
	other := newTokenManager("other-secret", "other-refresh", 1, 24)

	access, _, err := tm.CreateTokens(&JWTMessage{UserID: 1, Username: "x", Role: model.RoleTeamMember})
	require.NoError(t, err)

	_, err = other.CheckToken(access)
	assert.Error(t, err)
}

func TestCheckTokenRejectsGarbage(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 1, 24)
	_, err := tm.CheckToken("not.a.token")
	assert.Error(t, err)
}
