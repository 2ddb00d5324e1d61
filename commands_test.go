package marketpoint_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/marketpoint/marketpoint"
)

func TestRegisterUserHandler(t *testing.T) {
	t.Run("creates an unverified user with a pending token", func(t *testing.T) {
		users := newFakeUsers()
		handler := marketpoint.NewRegisterUserHandler(newFakeRepoManager(users))

		var resp *marketpoint.RegisterUserResponse

		err := handler.Execute(context.Background(), marketpoint.RegisterUserMessage{
			Username: "tester",
			Email:    "tester@example.com",
			Password: "password123",
			OnResponse: func(r *marketpoint.RegisterUserResponse) {
				resp = r
			},
		})

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.NotEmpty(t, resp.VerificationToken)
		assert.False(t, resp.User.EmailVerified)
		assert.True(t, resp.User.HasPendingVerification())
		assert.NotEqual(t, uuid.Nil, resp.User.ID)

		// password never stored in the clear
		assert.NotEqual(t, "password123", resp.User.PasswordHash)
		assert.NoError(t, marketpoint.ComparePasswordAndHash("password123", resp.User.PasswordHash))
	})

	t.Run("defaults username from the email local part", func(t *testing.T) {
		users := newFakeUsers()
		handler := marketpoint.NewRegisterUserHandler(newFakeRepoManager(users))

		var resp *marketpoint.RegisterUserResponse

		err := handler.Execute(context.Background(), marketpoint.RegisterUserMessage{
			Email:    "someone@example.com",
			Password: "password123",
			OnResponse: func(r *marketpoint.RegisterUserResponse) {
				resp = r
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "someone", resp.User.Username)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		existing := seedUser(t, "password123", true)
		users := newFakeUsers(existing)
		handler := marketpoint.NewRegisterUserHandler(newFakeRepoManager(users))

		err := handler.Execute(context.Background(), marketpoint.RegisterUserMessage{
			Username: "imposter",
			Email:    existing.Email,
			Password: "password456",
		})

		assert.ErrorIs(t, err, marketpoint.ErrEmailExists)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		handler := marketpoint.NewRegisterUserHandler(newFakeRepoManager(newFakeUsers()))

		err := handler.Execute(context.Background(), marketpoint.RegisterUserMessage{
			Username: "tester",
			Email:    "tester@example.com",
		})

		assert.Error(t, err)
	})
}

func registerUser(t *testing.T, repo marketpoint.RepositoryManager, email string) *marketpoint.RegisterUserResponse {
	t.Helper()

	var resp *marketpoint.RegisterUserResponse
	err := marketpoint.NewRegisterUserHandler(repo).Execute(context.Background(), marketpoint.RegisterUserMessage{
		Email:    email,
		Password: "password123",
		OnResponse: func(r *marketpoint.RegisterUserResponse) {
			resp = r
		},
	})
	assert.NoError(t, err)

	return resp
}

func TestVerifyEmailHandler(t *testing.T) {
	t.Run("marks the account verified", func(t *testing.T) {
		users := newFakeUsers()
		repo := newFakeRepoManager(users)
		created := registerUser(t, repo, "tester@example.com")

		var verified *marketpoint.User

		err := marketpoint.NewVerifyEmailHandler(repo).Execute(context.Background(), marketpoint.VerifyEmailMessage{
			Token: created.VerificationToken,
			OnResponse: func(u *marketpoint.User) {
				verified = u
			},
		})

		assert.NoError(t, err)
		assert.True(t, verified.EmailVerified)
		assert.Nil(t, verified.VerificationToken)
		assert.Nil(t, verified.VerificationExpires)
	})

	t.Run("token is single use", func(t *testing.T) {
		users := newFakeUsers()
		repo := newFakeRepoManager(users)
		created := registerUser(t, repo, "tester@example.com")
		handler := marketpoint.NewVerifyEmailHandler(repo)

		msg := marketpoint.VerifyEmailMessage{Token: created.VerificationToken}

		assert.NoError(t, handler.Execute(context.Background(), msg))
		assert.ErrorIs(t, handler.Execute(context.Background(), msg), marketpoint.ErrVerificationInvalid)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := time.Now().Add(-time.Minute)
		token := "a-stale-token"
		user := seedUser(t, "password123", false)
		user.VerificationToken = &token
		user.VerificationExpires = &expired

		repo := newFakeRepoManager(newFakeUsers(user))

		err := marketpoint.NewVerifyEmailHandler(repo).Execute(context.Background(), marketpoint.VerifyEmailMessage{
			Token: token,
		})

		assert.ErrorIs(t, err, marketpoint.ErrVerificationInvalid)
	})

	t.Run("rejects unknown and empty tokens", func(t *testing.T) {
		repo := newFakeRepoManager(newFakeUsers())
		handler := marketpoint.NewVerifyEmailHandler(repo)

		err := handler.Execute(context.Background(), marketpoint.VerifyEmailMessage{Token: "nope"})
		assert.ErrorIs(t, err, marketpoint.ErrVerificationInvalid)

		err = handler.Execute(context.Background(), marketpoint.VerifyEmailMessage{})
		assert.ErrorIs(t, err, marketpoint.ErrVerificationInvalid)
	})
}

func TestResendVerificationHandler(t *testing.T) {
	t.Run("replaces the pending token", func(t *testing.T) {
		users := newFakeUsers()
		repo := newFakeRepoManager(users)
		created := registerUser(t, repo, "tester@example.com")

		var resp *marketpoint.ResendVerificationResponse

		err := marketpoint.NewResendVerificationHandler(repo).Execute(context.Background(), marketpoint.ResendVerificationMessage{
			UserID: created.User.ID,
			OnResponse: func(r *marketpoint.ResendVerificationResponse) {
				resp = r
			},
		})

		assert.NoError(t, err)
		assert.False(t, resp.AlreadyVerified)
		assert.NotEmpty(t, resp.VerificationToken)
		assert.NotEqual(t, created.VerificationToken, resp.VerificationToken)

		// old token no longer works
		verify := marketpoint.NewVerifyEmailHandler(repo)
		err = verify.Execute(context.Background(), marketpoint.VerifyEmailMessage{Token: created.VerificationToken})
		assert.ErrorIs(t, err, marketpoint.ErrVerificationInvalid)

		// new one does
		err = verify.Execute(context.Background(), marketpoint.VerifyEmailMessage{Token: resp.VerificationToken})
		assert.NoError(t, err)
	})

	t.Run("reports already verified accounts", func(t *testing.T) {
		user := seedUser(t, "password123", true)
		repo := newFakeRepoManager(newFakeUsers(user))

		var resp *marketpoint.ResendVerificationResponse

		err := marketpoint.NewResendVerificationHandler(repo).Execute(context.Background(), marketpoint.ResendVerificationMessage{
			UserID: user.ID,
			OnResponse: func(r *marketpoint.ResendVerificationResponse) {
				resp = r
			},
		})

		assert.NoError(t, err)
		assert.True(t, resp.AlreadyVerified)
		assert.Empty(t, resp.VerificationToken)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := newFakeRepoManager(newFakeUsers())

		err := marketpoint.NewResendVerificationHandler(repo).Execute(context.Background(), marketpoint.ResendVerificationMessage{
			UserID: uuid.New(),
		})

		assert.ErrorIs(t, err, marketpoint.ErrUserNotFound)
	})
}

func TestChangePasswordHandler(t *testing.T) {
	t.Run("rotates the password", func(t *testing.T) {
		user := seedUser(t, "old-password", true)
		users := newFakeUsers(user)
		repo := newFakeRepoManager(users)

		err := marketpoint.NewChangePasswordHandler(repo).Execute(context.Background(), marketpoint.ChangePasswordMessage{
			UserID:      user.ID,
			OldPassword: "old-password",
			NewPassword: "new-password",
		})
		assert.NoError(t, err)

		stored, err := users.GetByID(context.Background(), user.ID)
		assert.NoError(t, err)
		assert.Error(t, marketpoint.ComparePasswordAndHash("old-password", stored.PasswordHash))
		assert.NoError(t, marketpoint.ComparePasswordAndHash("new-password", stored.PasswordHash))
	})

	t.Run("accepts the owning session", func(t *testing.T) {
		user := seedUser(t, "old-password", true)
		repo := newFakeRepoManager(newFakeUsers(user))

		ctx := marketpoint.WithClaimsContext(context.Background(), &marketpoint.JWTClaims{UID: user.ID.String()})

		err := marketpoint.NewChangePasswordHandler(repo).Execute(ctx, marketpoint.ChangePasswordMessage{
			UserID:      user.ID,
			OldPassword: "old-password",
			NewPassword: "new-password",
		})
		assert.NoError(t, err)
	})

	t.Run("rejects a session that belongs to someone else", func(t *testing.T) {
		user := seedUser(t, "old-password", true)
		repo := newFakeRepoManager(newFakeUsers(user))

		ctx := marketpoint.WithClaimsContext(context.Background(), &marketpoint.JWTClaims{UID: uuid.New().String()})

		err := marketpoint.NewChangePasswordHandler(repo).Execute(ctx, marketpoint.ChangePasswordMessage{
			UserID:      user.ID,
			OldPassword: "old-password",
			NewPassword: "new-password",
		})
		assert.ErrorIs(t, err, marketpoint.ErrActorMismatch)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		user := seedUser(t, "old-password", true)
		repo := newFakeRepoManager(newFakeUsers(user))

		err := marketpoint.NewChangePasswordHandler(repo).Execute(context.Background(), marketpoint.ChangePasswordMessage{
			UserID:      user.ID,
			OldPassword: "not-the-password",
			NewPassword: "new-password",
		})

		assert.ErrorIs(t, err, marketpoint.ErrOldPasswordMismatch)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := newFakeRepoManager(newFakeUsers())

		err := marketpoint.NewChangePasswordHandler(repo).Execute(context.Background(), marketpoint.ChangePasswordMessage{
			UserID:      uuid.New(),
			OldPassword: "old-password",
			NewPassword: "new-password",
		})

		assert.ErrorIs(t, err, marketpoint.ErrUserNotFound)
	})
}

func TestUpdateUserHandler(t *testing.T) {
	t.Run("applies partial updates", func(t *testing.T) {
		user := seedUser(t, "password123", true)
		repo := newFakeRepoManager(newFakeUsers(user))

		var updated *marketpoint.User

		err := marketpoint.NewUpdateUserHandler(repo).Execute(context.Background(), marketpoint.UpdateUserMessage{
			UserID:   user.ID,
			Username: "renamed",
			OnResponse: func(u *marketpoint.User) {
				updated = u
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "renamed", updated.Username)
		assert.Equal(t, user.Email, updated.Email)
	})

	t.Run("rejects a session that belongs to someone else", func(t *testing.T) {
		user := seedUser(t, "password123", true)
		repo := newFakeRepoManager(newFakeUsers(user))

		ctx := marketpoint.WithClaimsContext(context.Background(), &marketpoint.JWTClaims{UID: uuid.New().String()})

		err := marketpoint.NewUpdateUserHandler(repo).Execute(ctx, marketpoint.UpdateUserMessage{
			UserID:   user.ID,
			Username: "renamed",
		})
		assert.ErrorIs(t, err, marketpoint.ErrActorMismatch)
	})

	t.Run("rejects email owned by another user", func(t *testing.T) {
		user := seedUser(t, "password123", true)
		other := seedUser(t, "password123", true)
		other.ID = uuid.New()
		other.Email = "other@example.com"

		repo := newFakeRepoManager(newFakeUsers(user, other))

		err := marketpoint.NewUpdateUserHandler(repo).Execute(context.Background(), marketpoint.UpdateUserMessage{
			UserID: user.ID,
			Email:  other.Email,
		})

		assert.ErrorIs(t, err, marketpoint.ErrEmailInUse)
	})

	t.Run("keeping your own email is not a conflict", func(t *testing.T) {
		user := seedUser(t, "password123", true)
		repo := newFakeRepoManager(newFakeUsers(user))

		err := marketpoint.NewUpdateUserHandler(repo).Execute(context.Background(), marketpoint.UpdateUserMessage{
			UserID:   user.ID,
			Username: "renamed",
			Email:    user.Email,
		})

		assert.NoError(t, err)
	})
}
