package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/auth"
	"github.com/luxenest/luxenest-backend/pkg/config"
	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/mailer"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
	"github.com/luxenest/luxenest-backend/pkg/security"
	"github.com/luxenest/luxenest-backend/pkg/types"
)

const (
	verificationTokenBytes = 32
	verificationTokenTTL   = 24 * time.Hour
	resetTokenBytes        = 32
	resetTokenTTL          = time.Hour
	minPasswordLength      = 8
)

// productLoader validates wishlist targets against the live catalog.
type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// txRunner executes fn in a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterInput is the validated payload for account creation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// AuthResult pairs the minted token with the authenticated account.
type AuthResult struct {
	Token string
	User  *models.User
}

// UpdateProfileInput mutates the editable profile fields. Nil leaves a field
// unchanged.
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

// AddressInput carries a full address payload for create or update.
type AddressInput struct {
	FullName   string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// UserPage is one page of accounts plus metadata.
type UserPage struct {
	Users []models.User
	Meta  pagination.Meta
}

// Service exposes account, address book, wishlist, and credential operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs types.UserPreferences) (*models.User, error)

	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error

	ListWishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	AddToWishlist(ctx context.Context, userID, productID uuid.UUID) error
	RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error

	AdminListUsers(ctx context.Context, params pagination.Params) (*UserPage, error)
	AdminSetRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) (*models.User, error)
}

type service struct {
	repo     *Repository
	products productLoader
	tx       txRunner
	jwt      config.JWTConfig
	password config.PasswordConfig
	mail     mailer.Mailer
	logg     *logger.Logger
}

// NewService constructs a user service instance.
func NewService(
	repo *Repository,
	products productLoader,
	tx txRunner,
	jwt config.JWTConfig,
	password config.PasswordConfig,
	mail mailer.Mailer,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: products,
		tx:       tx,
		jwt:      jwt,
		password: password,
		mail:     mail,
		logg:     logg,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         enums.UserRoleUser,
	}

	verifyToken, err := security.GenerateToken(verificationTokenBytes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification token")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, user); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
		}
		return repo.CreateToken(ctx, &models.UserToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			Purpose:   enums.TokenPurposeVerification,
			Token:     verifyToken,
			ExpiresAt: time.Now().Add(verificationTokenTTL),
		})
	})
	if err != nil {
		return nil, err
	}

	s.sendMail(ctx, user.Email, "Welcome to LuxeNest",
		fmt.Sprintf("Hi %s, confirm your email with token %s.", user.Name, verifyToken))

	token, err := auth.MintAccessToken(s.jwt, time.Now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	ctx = s.logg.WithUserID(ctx, user.ID.String())
	s.logg.Info(ctx, "account registered")
	return &AuthResult{Token: token, User: user}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, invalidCredentials()
	}

	token, err := auth.MintAccessToken(s.jwt, time.Now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &AuthResult{Token: token, User: user}, nil
}

func (s *service) VerifyEmail(ctx context.Context, tokenValue string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		token, err := s.usableToken(ctx, repo, tokenValue, enums.TokenPurposeVerification)
		if err != nil {
			return err
		}

		user, err := repo.FindByID(ctx, token.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
		}
		user.IsVerified = true
		if err := repo.Save(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify account")
		}
		return repo.MarkTokenUsed(ctx, token.ID, time.Now())
	})
}

// RequestPasswordReset issues a reset token. An unknown email returns success
// so the endpoint does not leak which addresses have accounts.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	resetToken, err := security.GenerateToken(resetTokenBytes)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}

	err = s.repo.CreateToken(ctx, &models.UserToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Purpose:   enums.TokenPurposePasswordReset,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}

	s.sendMail(ctx, user.Email, "Reset your LuxeNest password",
		fmt.Sprintf("Hi %s, reset your password with token %s. It expires in one hour.", user.Name, resetToken))
	return nil
}

func (s *service) ResetPassword(ctx context.Context, tokenValue, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(newPassword, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		token, err := s.usableToken(ctx, repo, tokenValue, enums.TokenPurposePasswordReset)
		if err != nil {
			return err
		}

		user, err := repo.FindByID(ctx, token.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
		}
		user.PasswordHash = hash
		if err := repo.Save(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
		}
		return repo.MarkTokenUsed(ctx, token.ID, time.Now())
	})
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return user, nil
}

func (s *service) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs types.UserPreferences) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Preferences = prefs
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update preferences")
	}
	return user, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	rows, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

func (s *service) AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*models.Address, error) {
	if err := validateAddress(input); err != nil {
		return nil, err
	}

	address := &models.Address{ID: uuid.New(), UserID: userID}
	applyAddressInput(address, input)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.ListAddresses(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
		}
		// The first address always becomes the default.
		if len(existing) == 0 {
			address.IsDefault = true
		} else if address.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		if err := repo.CreateAddress(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*models.Address, error) {
	if err := validateAddress(input); err != nil {
		return nil, err
	}

	var updated *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		address, err := repo.FindAddress(ctx, userID, addressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}

		if input.IsDefault && !address.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		applyAddressInput(address, input)
		if err := repo.SaveAddress(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
		}
		updated = address
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.repo.FindAddress(ctx, userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if err := s.repo.DeleteAddress(ctx, userID, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) ListWishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	rows, err := s.repo.ListWishlist(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return rows, nil
}

func (s *service) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "product does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	item := &models.WishlistItem{ID: uuid.New(), UserID: userID, ProductID: product.ID}
	if err := s.repo.AddWishlistItem(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return nil
}

func (s *service) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.repo.RemoveWishlistItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}

func (s *service) AdminListUsers(ctx context.Context, params pagination.Params) (*UserPage, error) {
	rows, meta, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return &UserPage{Users: rows, Meta: meta}, nil
}

func (s *service) AdminSetRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) (*models.User, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}
	return user, nil
}

func (s *service) usableToken(ctx context.Context, repo *Repository, value string, purpose enums.TokenPurpose) (*models.UserToken, error) {
	if strings.TrimSpace(value) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token required")
	}

	token, err := repo.FindToken(ctx, value, purpose)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is invalid or expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load token")
	}
	if !token.IsUsable(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is invalid or expired")
	}
	return token, nil
}

// sendMail delivers asynchronously; failures are logged, never returned.
func (s *service) sendMail(ctx context.Context, to, subject, body string) {
	if s.mail == nil {
		return
	}
	msg := mailer.Message{To: to, Subject: subject, Body: body}
	go func() {
		bg := context.WithoutCancel(ctx)
		if err := s.mail.Send(bg, msg); err != nil {
			s.logg.Error(bg, "mail delivery failed", err)
		}
	}()
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}

func validateAddress(input AddressInput) error {
	missing := []string{}
	for field, value := range map[string]string{
		"full_name":   input.FullName,
		"line1":       input.Line1,
		"city":        input.City,
		"postal_code": input.PostalCode,
		"country":     input.Country,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is missing required fields").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

func applyAddressInput(address *models.Address, input AddressInput) {
	address.FullName = strings.TrimSpace(input.FullName)
	address.Phone = strings.TrimSpace(input.Phone)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Line2 = strings.TrimSpace(input.Line2)
	address.City = strings.TrimSpace(input.City)
	address.State = strings.TrimSpace(input.State)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	address.Country = strings.TrimSpace(input.Country)
	address.IsDefault = input.IsDefault
}
