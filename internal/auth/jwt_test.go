package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	manager := NewManager("test-secret")

	token, err := manager.Issue(42, "DV-4K7Q2Z", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "DV-4K7Q2Z", claims.CommunityID)
	assert.Equal(t, "user", claims.Role)

	require.NotNil(t, claims.ExpiresAt)
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, TokenTTL-time.Minute)
	assert.LessOrEqual(t, remaining, TokenTTL)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a").Issue(1, "DV-AAAAAA", "user")
	require.NoError(t, err)

	_, err = NewManager("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := NewManager("test-secret").Verify("not.a.token")
	assert.Error(t, err)
}
