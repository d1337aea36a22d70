package auth

import (
	"context"
	"testing"
	"time"

	"tablekart/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func TestVerifier_Verify(t *testing.T) {
	userID := uuid.New()
	verifier := NewVerifier(testSecret)

	valid, err := Sign(testSecret, userID, "owner@example.com", model.RoleSuperadmin, time.Hour)
	require.NoError(t, err)
	expired, err := Sign(testSecret, userID, "owner@example.com", model.RoleSuperadmin, -time.Minute)
	require.NoError(t, err)
	otherSecret, err := Sign("another-secret", userID, "owner@example.com", model.RoleSuperadmin, time.Hour)
	require.NoError(t, err)
	noRole, err := Sign(testSecret, userID, "owner@example.com", "", time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		expectedRole  model.Role
		expectedError error
	}{
		{"Valid token", valid, model.RoleSuperadmin, nil},
		{"Missing role defaults to owner", noRole, model.RoleRestaurantOwner, nil},
		{"Expired token", expired, "", ErrExpiredToken},
		{"Wrong secret", otherSecret, "", ErrInvalidToken},
		{"Garbage", "not.a.token", "", ErrInvalidToken},
		{"Subject is not a user id", badSubject, "", ErrMissingSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := verifier.Verify(tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, p.UserID)
			assert.Equal(t, "owner@example.com", p.Email)
			assert.Equal(t, tt.expectedRole, p.Role)
			assert.Equal(t, tt.token, p.Token)
		})
	}
}

func TestVerifier_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewVerifier(testSecret).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRecoveryFragment(t *testing.T) {
	userID := uuid.New()
	verifier := NewVerifier(testSecret)
	token, err := Sign(testSecret, userID, "reset@example.com", model.RoleRestaurantOwner, time.Hour)
	require.NoError(t, err)

	t.Run("Full URL", func(t *testing.T) {
		link, err := verifier.ParseRecoveryFragment("https://app.example.com/reset-password#access_token=" + token + "&refresh_token=r1&type=recovery&expires_in=3600")

		require.NoError(t, err)
		assert.Equal(t, token, link.AccessToken)
		assert.Equal(t, "r1", link.RefreshToken)
		assert.Equal(t, time.Hour, link.ExpiresIn)
		assert.Equal(t, userID, link.Principal.UserID)
	})

	t.Run("Bare fragment", func(t *testing.T) {
		link, err := verifier.ParseRecoveryFragment("access_token=" + token + "&type=recovery")

		require.NoError(t, err)
		assert.Zero(t, link.ExpiresIn)
	})

	t.Run("Signup link is rejected", func(t *testing.T) {
		_, err := verifier.ParseRecoveryFragment("#access_token=" + token + "&type=signup")
		assert.ErrorIs(t, err, ErrNotRecovery)
	})

	t.Run("Missing token", func(t *testing.T) {
		_, err := verifier.ParseRecoveryFragment("#type=recovery")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Tampered token", func(t *testing.T) {
		_, err := verifier.ParseRecoveryFragment("#access_token=" + token + "x&type=recovery")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Bad expiry", func(t *testing.T) {
		_, err := verifier.ParseRecoveryFragment("#access_token=" + token + "&type=recovery&expires_in=soon")
		assert.Error(t, err)
	})
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	p := &Principal{UserID: uuid.New(), Role: model.RoleSuperadmin}
	got, ok := FromContext(WithPrincipal(context.Background(), p))
	require.True(t, ok)
	assert.True(t, got.IsSuperadmin())
}
