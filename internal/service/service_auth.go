package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkarpenko/recipebox/internal/config"
	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/internal/store"
	"github.com/mkarpenko/recipebox/internal/utils"
	"github.com/mkarpenko/recipebox/models"
)

// minPasswordLength is the minimum number of characters accepted for a
// user's password, enforced on registration and profile update alike.
const minPasswordLength = 6

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, profile management
// and the JWT token lifecycle, using a UserRepository for persistence and
// bcrypt for password hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given UserRepository
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// Register creates a new active user account.
//
// The email is normalized (whitespace trimmed, domain part lowercased), the
// password is checked against the minimum length and bcrypt-hashed before
// storage.
//
// Returns the persisted user (with a server-assigned ID) or:
//   - A *ValidationError with per-field messages when the email is malformed,
//     the password is too short, or the email is already taken.
//   - A wrapped storage error on any other repository failure.
func (a *authService) Register(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	validation := NewValidationError()

	email, err := utils.NormalizeEmail(request.Email)
	if err != nil {
		validation.Add("email", "enter a valid email address")
	}
	if len(request.Password) < minPasswordLength {
		validation.Add("password", fmt.Sprintf("ensure this field has at least %d characters", minPasswordLength))
	}
	if !validation.Empty() {
		log.Warn().Str("func", "*authService.Register").Str("email", request.Email).Msg("registration payload rejected")
		return models.User{}, validation
	}

	passwordHash, err := utils.HashPassword(request.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		Email:        email,
		Name:         request.Name,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			log.Warn().Str("func", "*authService.Register").Str("email", email).Msg("email already taken")
			taken := NewValidationError()
			taken.Add("email", "user with this email address already exists")
			return models.User{}, taken
		}
		log.Err(err).Str("func", "*authService.Register").Str("email", email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().
		Str("func", "*authService.Register").
		Int64("user_id", registeredUser.ID).
		Msg("user registered")

	return registeredUser, nil
}

// RegisterSuperuser creates an account carrying staff and superuser flags.
// Intended for startup bootstrap from configuration; when the email is
// already registered the existing account is returned unchanged, so repeated
// starts with the same configuration are idempotent.
func (a *authService) RegisterSuperuser(ctx context.Context, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	normalizedEmail, err := utils.NormalizeEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if len(password) < minPasswordLength {
		return models.User{}, fmt.Errorf("%w: password is shorter than %d characters", ErrInvalidDataProvided, minPasswordLength)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		Email:        normalizedEmail,
		PasswordHash: passwordHash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}

	createdUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			log.Info().
				Str("func", "*authService.RegisterSuperuser").
				Str("email", normalizedEmail).
				Msg("superuser already exists, skipping bootstrap")
			return a.userRepository.FindUserByEmail(ctx, normalizedEmail)
		}
		return models.User{}, fmt.Errorf("superuser creation ended with error: %w", err)
	}

	log.Info().
		Str("func", "*authService.RegisterSuperuser").
		Int64("user_id", createdUser.ID).
		Msg("superuser created")

	return createdUser, nil
}

// Authenticate verifies the supplied credentials against the stored account.
//
// On success the account's last_login timestamp is touched; a failure to
// record it is logged but does not fail the authentication.
//
// Returns the authenticated user record or:
//   - ErrInvalidDataProvided if email or password is empty or the email is malformed.
//   - A wrapped storage error if the lookup fails (e.g. store.ErrNoUserWasFound).
//   - ErrWrongPassword if the password does not match.
//   - ErrUserIsDisabled if the account has been deactivated.
func (a *authService) Authenticate(ctx context.Context, request models.CredentialsRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if request.Email == "" || request.Password == "" {
		log.Warn().Str("func", "*authService.Authenticate").Msg("empty credentials provided")
		return models.User{}, ErrInvalidDataProvided
	}

	email, err := utils.NormalizeEmail(request.Email)
	if err != nil {
		log.Warn().Str("func", "*authService.Authenticate").Str("email", request.Email).Msg("malformed email provided")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Warn().Err(err).Str("func", "*authService.Authenticate").Str("email", email).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !utils.CheckPassword(foundUser.PasswordHash, request.Password) {
		log.Warn().
			Str("func", "*authService.Authenticate").
			Int64("user_id", foundUser.ID).
			Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	if !foundUser.IsActive {
		log.Warn().
			Str("func", "*authService.Authenticate").
			Int64("user_id", foundUser.ID).
			Msg("disabled account attempted to authenticate")
		return models.User{}, ErrUserIsDisabled
	}

	if touchErr := a.userRepository.TouchLastLogin(ctx, foundUser.ID); touchErr != nil {
		log.Warn().Err(touchErr).
			Str("func", "*authService.Authenticate").
			Int64("user_id", foundUser.ID).
			Msg("failed to record last login")
	}

	return foundUser, nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
//
// Returns the token model on success or a wrapped error if JWT generation fails.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.ID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature and
// the issuer claim. Any validation failure (expired, wrong issuer, malformed)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// Profile returns the account behind userID.
func (a *authService) Profile(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	foundUser, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*authService.Profile").Int64("user_id", userID).Msg("user search by id failed")
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return foundUser, nil
}

// UpdateProfile applies a partial update to the account behind userID.
// A supplied password is length-checked and re-hashed; a supplied name
// replaces the stored one. Nil fields are left untouched.
func (a *authService) UpdateProfile(ctx context.Context, userID int64, request models.ProfileUpdateRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	update := store.UserUpdate{Name: request.Name}

	if request.Password != nil {
		if len(*request.Password) < minPasswordLength {
			validation := NewValidationError()
			validation.Add("password", fmt.Sprintf("ensure this field has at least %d characters", minPasswordLength))
			return models.User{}, validation
		}

		passwordHash, err := utils.HashPassword(*request.Password)
		if err != nil {
			log.Err(err).Str("func", "*authService.UpdateProfile").Int64("user_id", userID).Msg("password hashing failed")
			return models.User{}, fmt.Errorf("password hashing failed: %w", err)
		}
		update.PasswordHash = &passwordHash
	}

	updatedUser, err := a.userRepository.UpdateUser(ctx, userID, update)
	if err != nil {
		log.Err(err).Str("func", "*authService.UpdateProfile").Int64("user_id", userID).Msg("user update ended with error")
		return models.User{}, fmt.Errorf("user update ended with error: %w", err)
	}

	log.Info().
		Str("func", "*authService.UpdateProfile").
		Int64("user_id", userID).
		Bool("password_changed", request.Password != nil).
		Msg("profile updated")

	return updatedUser, nil
}
