package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"GuardianMobile/models"
	"GuardianMobile/repositories"
)

var jwtKey = []byte(jwtSecret())

func jwtSecret() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return "your_secret_key"
}

// Типы пользователей в токене
const (
	UserTypeGuardian = "guardian"
	UserTypeDevice   = "device"
)

type Claims struct {
	Email       string `json:"email"`
	FirebaseUID string `json:"firebase_uid"`
	UserType    string `json:"user_type"`
	DeviceID    uint   `json:"device_id,omitempty"`
	jwt.RegisteredClaims
}

type AuthService struct {
	GuardianRepo repositories.GuardianRepository
	DeviceRepo   repositories.DeviceRepository
	FirebaseAuth *auth.Client
}

func NewAuthService(guardianRepo repositories.GuardianRepository, deviceRepo repositories.DeviceRepository, firebaseAuth *auth.Client) *AuthService {
	return &AuthService{GuardianRepo: guardianRepo, DeviceRepo: deviceRepo, FirebaseAuth: firebaseAuth}
}

func (s *AuthService) RegisterGuardian(lang, name, email, password string) (models.Guardian, string, error) {
	if password == "" {
		return models.Guardian{}, "", errors.New("password cannot be empty")
	}

	// Регистрируем аккаунт в Firebase
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(name)

	createdUser, err := s.FirebaseAuth.CreateUser(context.Background(), params)
	if err != nil {
		return models.Guardian{}, "", err
	}
	firebaseUID := createdUser.UID

	code, err := s.generateUniqueCode()
	if err != nil {
		return models.Guardian{}, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Guardian{}, "", err
	}

	guardian := models.Guardian{
		Lang:        lang,
		Name:        name,
		Email:       email,
		Password:    string(hashedPassword),
		Role:        "guardian",
		FirebaseUID: firebaseUID,
	}
	guardian.RefreshCode(code)

	if err := s.GuardianRepo.Save(&guardian); err != nil {
		return models.Guardian{}, "", err
	}

	token, err := s.guardianToken(guardian)
	if err != nil {
		return models.Guardian{}, "", err
	}

	return guardian, token, nil
}

func (s *AuthService) LoginGuardian(email, password string) (models.Guardian, string, error) {
	guardian, err := s.GuardianRepo.FindByEmail(email)
	if err != nil {
		return models.Guardian{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(guardian.Password), []byte(password)); err != nil {
		return models.Guardian{}, "", err
	}

	// Если код привязки истек, выдаем новый
	if !guardian.IsCodeValid() {
		updated, err := s.RefreshGuardianCode(guardian.FirebaseUID)
		if err != nil {
			fmt.Printf("Failed to refresh guardian code: %v\n", err)
		} else {
			guardian = updated
		}
	}

	token, err := s.guardianToken(guardian)
	if err != nil {
		return models.Guardian{}, "", err
	}

	return guardian, token, nil
}

func (s *AuthService) VerifyToken(uid string) (interface{}, error) {
	guardian, err := s.GuardianRepo.FindByFirebaseUID(uid)
	if err == nil {
		return guardian, nil
	}

	if deviceID, convErr := strconv.ParseUint(uid, 10, 32); convErr == nil {
		device, devErr := s.DeviceRepo.FindByID(uint(deviceID))
		if devErr == nil {
			return device, nil
		}
	}

	return nil, errors.New("user not found")
}

// RefreshGuardianCode выдает новый уникальный код привязки на 24 часа
func (s *AuthService) RefreshGuardianCode(firebaseUID string) (models.Guardian, error) {
	guardian, err := s.GuardianRepo.FindByFirebaseUID(firebaseUID)
	if err != nil {
		return models.Guardian{}, err
	}

	code, err := s.generateUniqueCode()
	if err != nil {
		return models.Guardian{}, err
	}
	guardian.RefreshCode(code)

	if err := s.GuardianRepo.Save(&guardian); err != nil {
		return models.Guardian{}, err
	}

	return guardian, nil
}

// EnsureValidGuardianCode возвращает опекуна с действующим кодом привязки,
// обновляя код при необходимости
func (s *AuthService) EnsureValidGuardianCode(firebaseUID string) (models.Guardian, error) {
	guardian, err := s.GuardianRepo.FindByFirebaseUID(firebaseUID)
	if err != nil {
		return models.Guardian{}, err
	}

	if !guardian.IsCodeValid() {
		return s.RefreshGuardianCode(firebaseUID)
	}

	return guardian, nil
}

// DeviceToken выдает сессионный JWT управляемому устройству, чтобы
// heartbeat-и были аутентифицированы
func (s *AuthService) DeviceToken(device models.Device) (string, error) {
	claims := &Claims{
		FirebaseUID: strconv.FormatUint(uint64(device.ID), 10),
		UserType:    UserTypeDevice,
		DeviceID:    device.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func (s *AuthService) guardianToken(guardian models.Guardian) (string, error) {
	claims := &Claims{
		Email:       guardian.Email,
		FirebaseUID: guardian.FirebaseUID,
		UserType:    UserTypeGuardian,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// generateUniqueCode подбирает свободный 4-значный код привязки
func (s *AuthService) generateUniqueCode() (string, error) {
	for {
		code := fmt.Sprintf("%04d", 1000+rand.Intn(9000))
		var count int64
		if err := s.GuardianRepo.CountByCode(code, &count); err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}
