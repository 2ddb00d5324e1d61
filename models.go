package marketpoint

import (
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model
type User struct {
	bun.BaseModel       `bun:"table:users,alias:usr"`
	ID                  uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username            string     `bun:"username,notnull" json:"username,omitempty"`
	Email               string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash        string     `bun:"password_hash,notnull" json:"-"`
	EmailVerified       bool       `bun:"is_email_verified" json:"is_email_verified"`
	VerificationToken   *string    `bun:"email_verification_token,nullzero" json:"-"`
	VerificationExpires *time.Time `bun:"email_verification_expires,nullzero" json:"-"`
	CreatedAt           *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt           *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasPendingVerification reports whether a verification token is currently
// outstanding. Token and expiry are always both set or both cleared.
func (u *User) HasPendingVerification() bool {
	return u.VerificationToken != nil && u.VerificationExpires != nil
}

// Summary returns the transport-safe projection of the user record. The
// password hash and verification fields never leave the process.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
	}
}

// UserSummary is the minimal user payload returned by the API.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		if id, err := hashid.NewUUID(record.Email); err == nil {
			record.ID = id
		} else {
			record.ID = uuid.New()
		}
	}
}
