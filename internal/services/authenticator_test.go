package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/approval"
	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/hashing"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registered(t *testing.T, users map[string]string) *memRepo {
	t.Helper()
	repo := newMemRepo()
	r := newTestRegistrar(repo, approval.AlwaysApprove{}, testConfig())
	for name, pw := range users {
		res, err := r.AddUser(context.Background(), name, []byte(pw))
		require.NoError(t, err)
		require.Equal(t, Registered, res)
	}
	return repo
}

func TestVerify(t *testing.T) {
	long := strings.Repeat("a", 72)
	repo := registered(t, map[string]string{"alice": "correct-horse", "max": long})
	a := NewAuthenticator(repo, testHasher(), logging.Nop())
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		want     VerificationResult
		wantErr  error
	}{
		{name: "correct", username: "alice", password: "correct-horse", want: Success},
		{name: "wrong password", username: "alice", password: "wrong", want: WrongPassword, wantErr: common.ErrWrongPassword},
		{name: "case matters", username: "alice", password: "Correct-horse", want: WrongPassword, wantErr: common.ErrWrongPassword},
		{name: "unknown user", username: "ghost", password: "correct-horse", want: UserNotFound, wantErr: common.ErrUserNotFound},
		{name: "username case matters", username: "Alice", password: "correct-horse", want: UserNotFound, wantErr: common.ErrUserNotFound},
		{name: "72-byte password", username: "max", password: long, want: Success},
		{name: "72-byte password plus suffix", username: "max", password: long + "-different-suffix", want: WrongPassword, wantErr: common.ErrWrongPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := a.Verify(ctx, tt.username, []byte(tt.password))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.Err(), tt.wantErr)
			} else {
				assert.NoError(t, res.Err())
			}
		})
	}
}

func TestLogin_CollapsesFailures(t *testing.T) {
	repo := registered(t, map[string]string{"alice": "correct-horse"})
	a := NewAuthenticator(repo, testHasher(), logging.Nop())
	ctx := context.Background()

	require.NoError(t, a.Login(ctx, "alice", []byte("correct-horse")))

	errWrong := a.Login(ctx, "alice", []byte("wrong"))
	errMissing := a.Login(ctx, "ghost", []byte("correct-horse"))

	assert.ErrorIs(t, errWrong, common.ErrInvalidCredentials)
	assert.ErrorIs(t, errMissing, common.ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errMissing.Error())
	assert.False(t, errors.Is(errMissing, common.ErrUserNotFound))
}

func TestVerify_StoreError(t *testing.T) {
	repo := newMemRepo()
	repo.lookupErr = common.NewStoreError("lookup", errors.New("database disk image is malformed"))
	a := NewAuthenticator(repo, testHasher(), logging.Nop())

	res, err := a.Verify(context.Background(), "alice", []byte("pw"))
	assert.Zero(t, res)
	assert.True(t, common.IsStoreError(err))

	err = a.Login(context.Background(), "alice", []byte("pw"))
	assert.True(t, common.IsStoreError(err))
	assert.False(t, errors.Is(err, common.ErrInvalidCredentials))
}

func TestVerify_CorruptHashIsStoreError(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "unknown scheme", hash: "plaintext-password"},
		{name: "truncated bcrypt", hash: "$2a$04$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			repo.users["alice"] = []byte(tt.hash)
			a := NewAuthenticator(repo, testHasher(), logging.Nop())

			res, err := a.Verify(context.Background(), "alice", []byte("plaintext-password"))
			assert.Zero(t, res)
			require.Error(t, err)
			assert.True(t, common.IsStoreError(err))
		})
	}

	repo := newMemRepo()
	repo.users["alice"] = []byte("$6$salt$x")
	a := NewAuthenticator(repo, hashing.NewPolicy(hashing.NewBcrypt(4)), logging.Nop())
	_, err := a.Verify(context.Background(), "alice", []byte("pw"))
	assert.ErrorIs(t, err, hashing.ErrUnsupportedHash)
}

func TestVerify_MixedSchemes(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	bcryptFirst := NewRegistrar(repo, hashing.NewPolicy(hashing.NewBcrypt(4), hashing.NewSHA512Crypt()), approval.AlwaysApprove{}, testConfig(), logging.Nop())
	shaFirst := NewRegistrar(repo, hashing.NewPolicy(hashing.NewSHA512Crypt(), hashing.NewBcrypt(4)), approval.AlwaysApprove{}, testConfig(), logging.Nop())

	_, err := bcryptFirst.AddUser(ctx, "alice", []byte("alice-password"))
	require.NoError(t, err)
	_, err = shaFirst.AddUser(ctx, "bob", []byte("bob-password"))
	require.NoError(t, err)

	a := NewAuthenticator(repo, testHasher(), logging.Nop())
	for name, pw := range map[string]string{"alice": "alice-password", "bob": "bob-password"} {
		res, err := a.Verify(ctx, name, []byte(pw))
		require.NoError(t, err)
		assert.Equal(t, Success, res, name)
	}
}

func TestVerify_LogsReasons(t *testing.T) {
	repo := registered(t, map[string]string{"alice": "correct-horse"})
	logger, buf := newBufferLogger()
	a := NewAuthenticator(repo, testHasher(), logger)
	ctx := context.Background()

	_, _ = a.Verify(ctx, "alice", []byte("correct-horse"))
	_, _ = a.Verify(ctx, "alice", []byte("wrong-guess"))
	_, _ = a.Verify(ctx, "ghost", []byte("whatever"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"login_success"`)
	assert.Contains(t, out, `"msg":"login_failure"`)
	assert.Contains(t, out, `"reason":"wrong_password"`)
	assert.Contains(t, out, `"reason":"user_not_found"`)
	assert.NotContains(t, out, "correct-horse")
	assert.NotContains(t, out, "wrong-guess")
	assert.NotContains(t, out, string(repo.users["alice"]))
}

func TestVerify_DummyHashComputedOnce(t *testing.T) {
	h := &countingHasher{Hasher: testHasher()}
	a := NewAuthenticator(newMemRepo(), h, logging.Nop())

	for i := 0; i < 3; i++ {
		res, err := a.Verify(context.Background(), "ghost", []byte("pw"))
		require.NoError(t, err)
		assert.Equal(t, UserNotFound, res)
	}

	assert.Equal(t, 1, h.hashes)
	assert.Equal(t, 3, h.compares)
}

type countingHasher struct {
	hashing.Hasher
	hashes   int
	compares int
}

func (c *countingHasher) Hash(password []byte) ([]byte, error) {
	c.hashes++
	return c.Hasher.Hash(password)
}

func (c *countingHasher) Compare(hash, password []byte) (bool, error) {
	c.compares++
	return c.Hasher.Compare(hash, password)
}
