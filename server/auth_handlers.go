package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"

	"github.com/marketpoint/marketpoint"
)

// AuthController exposes the account endpoints. Multi-step operations go
// through command handlers; simple reads and deletes hit the repository
// directly.
type AuthController struct {
	logger marketpoint.Logger
	config marketpoint.Config
	auther marketpoint.Authenticator
	repo   marketpoint.RepositoryManager

	register *marketpoint.RegisterUserHandler
	verify   *marketpoint.VerifyEmailHandler
	resend   *marketpoint.ResendVerificationHandler
	update   *marketpoint.UpdateUserHandler
	password *marketpoint.ChangePasswordHandler
}

func NewAuthController(
	logger marketpoint.Logger,
	config marketpoint.Config,
	auther marketpoint.Authenticator,
	repo marketpoint.RepositoryManager,
) *AuthController {
	return &AuthController{
		logger:   logger,
		config:   config,
		auther:   auther,
		repo:     repo,
		register: marketpoint.NewRegisterUserHandler(repo),
		verify:   marketpoint.NewVerifyEmailHandler(repo),
		resend:   marketpoint.NewResendVerificationHandler(repo),
		update:   marketpoint.NewUpdateUserHandler(repo),
		password: marketpoint.NewChangePasswordHandler(repo),
	}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) Signup(c *fiber.Ctx) error {
	req := SignupRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}

	if err := req.Validate(); err != nil {
		return invalidInput(err)
	}

	var created *marketpoint.RegisterUserResponse

	err := a.register.Execute(c.UserContext(), marketpoint.RegisterUserMessage{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		OnResponse: func(r *marketpoint.RegisterUserResponse) {
			created = r
		},
	})
	if err != nil {
		return err
	}

	// Email delivery is out of process; the token is logged so the
	// verification link can be picked up from the application output.
	a.logger.Info("verification token issued for %s: %s", created.User.Email, created.VerificationToken)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Signup successful. Verify your email.",
		"user":    created.User.Summary(),
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login does not validate the email shape: anything that is not a known
// address gets the same credentials error, so account existence never leaks
// through a different status.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	req := LoginRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}

	if err := req.Validate(); err != nil {
		return invalidInput(err)
	}

	token, identity, err := a.auther.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":       identity.ID(),
			"username": identity.Username(),
			"email":    identity.Email(),
		},
	})
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

func (r VerifyEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	)
}

// VerifyEmail accepts the token in the body or, to support link clicks, as
// a query parameter.
func (a *AuthController) VerifyEmail(c *fiber.Ctx) error {
	req := VerifyEmailRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(err)
		}
	}

	if req.Token == "" {
		req.Token = c.Query("token")
	}

	if err := req.Validate(); err != nil {
		return marketpoint.ErrVerificationInvalid
	}

	err := a.verify.Execute(c.UserContext(), marketpoint.VerifyEmailMessage{
		Token: req.Token,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
	})
}

func (a *AuthController) ResendVerification(c *fiber.Ctx) error {
	userID, err := SessionUserID(c, a.config.GetContextKey())
	if err != nil {
		return err
	}

	var resp *marketpoint.ResendVerificationResponse

	err = a.resend.Execute(c.UserContext(), marketpoint.ResendVerificationMessage{
		UserID: userID,
		OnResponse: func(r *marketpoint.ResendVerificationResponse) {
			resp = r
		},
	})
	if err != nil {
		return err
	}

	if resp.AlreadyVerified {
		return marketpoint.ErrAlreadyVerified
	}

	a.logger.Info("verification token reissued for user %s: %s", userID, resp.VerificationToken)

	return c.JSON(fiber.Map{
		"message": "Verification email sent",
	})
}

func (a *AuthController) Profile(c *fiber.Ctx) error {
	userID, err := SessionUserID(c, a.config.GetContextKey())
	if err != nil {
		return err
	}

	user, err := a.repo.Users().GetByID(c.UserContext(), userID)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return marketpoint.ErrUserNotFound
		}
		return err
	}

	return c.JSON(fiber.Map{
		"user": user.Summary(),
	})
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Length(6, 100), is.Email),
	)
}

func (a *AuthController) Update(c *fiber.Ctx) error {
	userID, err := SessionUserID(c, a.config.GetContextKey())
	if err != nil {
		return err
	}

	req := UpdateUserRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}

	if err := req.Validate(); err != nil {
		return invalidInput(err)
	}

	var updated *marketpoint.User

	err = a.update.Execute(c.UserContext(), marketpoint.UpdateUserMessage{
		UserID:   userID,
		Username: req.Username,
		Email:    req.Email,
		OnResponse: func(u *marketpoint.User) {
			updated = u
		},
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User updated",
		"user":    updated.Summary(),
	})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := SessionUserID(c, a.config.GetContextKey())
	if err != nil {
		return err
	}

	req := ChangePasswordRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}

	if err := req.Validate(); err != nil {
		return invalidInput(err)
	}

	err = a.password.Execute(c.UserContext(), marketpoint.ChangePasswordMessage{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}

func (a *AuthController) Delete(c *fiber.Ctx) error {
	userID, err := SessionUserID(c, a.config.GetContextKey())
	if err != nil {
		return err
	}

	// Deletion is unconditional; removing an already-removed account is
	// fine and answers the same way.
	if err := a.repo.Users().DeleteByID(c.UserContext(), userID); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete account")
	}

	return c.JSON(fiber.Map{
		"message": "Account deleted successfully",
	})
}
