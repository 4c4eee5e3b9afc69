package engine

import "errors"

// Таксономия ошибок движка. Ошибки валидации расписаний никогда не
// пересекают границу оценщика — он деградирует до "неактивно".
var (
	ErrNotFound         = errors.New("record not found")
	ErrValidation       = errors.New("validation failed")
	ErrIdentityMismatch = errors.New("identity mismatch")
	ErrConsentRequired  = errors.New("consent required")
	ErrConsentDenied    = errors.New("consent denied")
	ErrTransientStore   = errors.New("transient store error")
)
