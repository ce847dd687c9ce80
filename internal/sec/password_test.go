package sec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "short", password: "pw"},
		{name: "longest allowed", password: strings.Repeat("x", MaxPasswordLength)},
		{name: "too long", password: strings.Repeat("x", MaxPasswordLength+1), wantErr: ErrPasswordTooLong},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			hash, err := HashPassword(test.password)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, string(hash), test.password)
			require.NoError(t, ComparePassword(test.password, hash))
		})
	}
}

func TestComparePassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword([]byte("correct horse"))
	require.NoError(t, err)

	require.NoError(t, ComparePassword("correct horse", hash))
	require.ErrorIs(t, ComparePassword("battery staple", hash), ErrPasswordMismatch)

	err = ComparePassword("correct horse", []byte("not a hash"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestDummyHash(t *testing.T) {
	t.Parallel()

	hash := dummyHash()
	require.NotEmpty(t, hash)
	assert.Equal(t, hash, dummyHash())
	require.ErrorIs(t, ComparePassword("", hash), ErrPasswordMismatch)
}
