package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Secret_Round_Trip(t *testing.T) {
	req := require.New(t)

	salt, err := GenSalt()
	req.NoError(err)
	req.Len(salt, SaltLength)

	hash := HashSecret("hunter2!", salt)
	req.Len(hash, KeyLength)

	req.True(CompareSecret("hunter2!", salt, hash))
	req.False(CompareSecret("wrong", salt, hash))
	req.False(CompareSecret("hunter2!", nil, hash))
	req.False(CompareSecret("hunter2!", salt, nil))
}

func Test_Password_Round_Trip(t *testing.T) {
	req := require.New(t)

	encoded, err := HashPassword("Str0ng&Secret!!")
	req.NoError(err)
	req.Contains(encoded, "$argon2id$")

	match, err := ComparePassword("Str0ng&Secret!!", encoded)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("Wr0ng&Secret!!", encoded)
	req.NoError(err)
	req.False(match)

	_, err = ComparePassword("anything", "not-an-encoded-hash")
	req.Error(err)
}

func Test_Token_Round_Trip(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-42", []string{"user"}, time.Hour)
	req.NoError(err)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal("user-42", claims.UserID)
	req.Equal([]string{"user"}, claims.Roles)

	_, err = ValidateToken(token + "tampered")
	req.Error(err)
}

func Test_Expired_Token_Is_Rejected(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-42", []string{"user"}, -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.Error(err)
}
