package marketpoint

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// BaseConfig is the application configuration root. Values come from the
// config loader's sources (files, env) with these defaults as the base layer.
type BaseConfig struct {
	Server      Server      `json:"server"`
	Persistence Persistence `json:"persistence"`
	Auth        AuthConfig  `json:"auth"`
}

type Server struct {
	Address string `json:"address"`
}

type Persistence struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

// AuthConfig implements Config for the token service and session middleware.
type AuthConfig struct {
	SigningKey      string   `json:"signing_key"`
	SigningMethod   string   `json:"signing_method"`
	ContextKey      string   `json:"context_key"`
	TokenExpiration int      `json:"token_expiration"`
	Scheme          string   `json:"scheme"`
	Issuer          string   `json:"issuer"`
	Audience        []string `json:"audience"`
}

func DefaultConfig() *BaseConfig {
	return &BaseConfig{
		Server: Server{
			Address: ":3000",
		},
		Persistence: Persistence{
			Driver: "sqlite",
			DSN:    "file:marketpoint.db?cache=shared&_pragma=foreign_keys(1)",
		},
		Auth: AuthConfig{
			SigningMethod:   "HS256",
			ContextKey:      "user",
			TokenExpiration: 168,
			Scheme:          "Bearer",
			Issuer:          "marketpoint",
			Audience:        []string{"marketpoint"},
		},
	}
}

func (a BaseConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Server),
		validation.Field(&a.Auth),
	)
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.Required),
	)
}

func (a AuthConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required),
		validation.Field(&a.SigningMethod, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&a.TokenExpiration, validation.Min(1)),
	)
}

func (a *BaseConfig) GetServer() Server           { return a.Server }
func (a *BaseConfig) GetPersistence() Persistence { return a.Persistence }
func (a *BaseConfig) GetAuth() AuthConfig         { return a.Auth }

var _ Config = AuthConfig{}

func (a AuthConfig) GetSigningKey() string      { return a.SigningKey }
func (a AuthConfig) GetSigningMethod() string   { return a.SigningMethod }
func (a AuthConfig) GetContextKey() string      { return a.ContextKey }
func (a AuthConfig) GetTokenExpiration() int    { return a.TokenExpiration }
func (a AuthConfig) GetAuthScheme() string      { return a.Scheme }
func (a AuthConfig) GetIssuer() string          { return a.Issuer }
func (a AuthConfig) GetAudience() []string      { return a.Audience }
