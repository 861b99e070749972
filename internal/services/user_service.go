package services

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stylespizza/pizza-api/internal/auth"
	"github.com/stylespizza/pizza-api/internal/mailer"
	"github.com/stylespizza/pizza-api/internal/models"
)

// LoginResult carries the credentials issued by a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// UserService is the identity service: registration with email verification,
// login with refresh-credential rotation and the password-reset flow. The
// refresh and reset credentials live in separate single slots on the user
// row; a new login overwrites the previous refresh credential, which revokes
// earlier sessions' ability to refresh.
type UserService interface {
	Register(input *models.RegisterInput) (*models.User, error)
	VerifyEmail(token string) error
	Login(email, password string) (*LoginResult, error)
	Refresh(refreshToken string) (string, error)
	Logout(userID uint) error
	ForgotPassword(email string) error
	ResetPassword(token, newPassword string) error
	GetUserByID(id uint) (*models.User, error)
	UpdateProfile(userID uint, name, phone string) (*models.User, error)
	DeleteUser(id uint) error
}

type userService struct {
	db     *gorm.DB
	tokens *auth.TokenIssuer
	mail   mailer.Mailer
}

// NewUserService creates a new instance of UserService
func NewUserService(db *gorm.DB, tokens *auth.TokenIssuer, mail mailer.Mailer) UserService {
	return &userService{db: db, tokens: tokens, mail: mail}
}

func (s *userService) Register(input *models.RegisterInput) (*models.User, error) {
	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	verificationToken, err := s.tokens.VerificationToken(input.Email)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:              input.Name,
		Email:             input.Email,
		Password:          input.Password,
		Phone:             input.Phone,
		Role:              role,
		VerificationToken: verificationToken,
	}
	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			return ErrEmailTaken
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}

	// Best-effort: a failed send leaves the account registered, unverified.
	if err := s.mail.SendVerificationEmail(user.Email, verificationToken); err != nil {
		log.WithError(err).WithField("email", user.Email).Error("Failed to send verification email")
	}

	return user, nil
}

func (s *userService) VerifyEmail(token string) error {
	claims, err := s.tokens.Parse(token, auth.TokenVerification)
	if err != nil {
		return ErrInvalidToken
	}
	email, err := auth.EmailFromClaims(claims)
	if err != nil {
		return ErrInvalidToken
	}

	result := s.db.Model(&models.User{}).
		Where("email = ? AND verification_token = ?", email, token).
		Updates(map[string]interface{}{
			"is_verified":        true,
			"verification_token": "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidToken
	}
	return nil
}

func (s *userService) Login(email, password string) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Verification is checked before the password so an unverified account
	// always gets the same answer.
	if !user.IsVerified {
		return nil, ErrUnverified
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.AccessToken(&user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.RefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	// Rotate the single refresh slot; prior sessions can no longer refresh.
	if err := s.db.Model(&user).Update("refresh_token", refreshToken).Error; err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &user,
	}, nil
}

func (s *userService) Refresh(refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.TokenRefresh)
	if err != nil {
		return "", ErrInvalidToken
	}
	userID, err := auth.UserIDFromClaims(claims)
	if err != nil {
		return "", ErrInvalidToken
	}

	var user models.User
	if err := s.db.Where("id = ? AND refresh_token = ?", userID, refreshToken).First(&user).Error; err != nil {
		return "", ErrInvalidToken
	}

	return s.tokens.AccessToken(&user)
}

func (s *userService) Logout(userID uint) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token", "").Error
}

func (s *userService) ForgotPassword(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address is registered.
			return nil
		}
		return err
	}

	resetToken, err := s.tokens.ResetToken(user.ID)
	if err != nil {
		return err
	}

	if err := s.db.Model(&user).Update("reset_token", resetToken).Error; err != nil {
		return err
	}

	if err := s.mail.SendPasswordResetEmail(user.Email, resetToken); err != nil {
		log.WithError(err).WithField("email", user.Email).Error("Failed to send password reset email")
	}
	return nil
}

func (s *userService) ResetPassword(token, newPassword string) error {
	claims, err := s.tokens.Parse(token, auth.TokenReset)
	if err != nil {
		return ErrInvalidToken
	}
	userID, err := auth.UserIDFromClaims(claims)
	if err != nil {
		return ErrInvalidToken
	}

	var user models.User
	if err := s.db.Where("id = ? AND reset_token = ?", userID, token).First(&user).Error; err != nil {
		return ErrInvalidToken
	}

	user.Password = newPassword
	if err := user.HashPassword(); err != nil {
		return err
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"password":    user.Password,
		"reset_token": "",
	}).Error
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) UpdateProfile(userID uint, name, phone string) (*models.User, error) {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"name":  name,
		"phone": phone,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUserByID(userID)
}

func (s *userService) DeleteUser(id uint) error {
	result := s.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
