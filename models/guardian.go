package models

import "time"

type Guardian struct {
	ID            uint       `json:"id" gorm:"primary_key"`
	Lang          string     `json:"lang"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Password      string     `json:"-"`
	FirebaseUID   string     `json:"firebase_uid"`
	Role          string     `json:"role"`
	Code          string     `json:"code" gorm:"size:4"` // Код привязки устройства, 4 цифры
	CodeExpiresAt *time.Time `json:"code_expires_at"`    // Время истечения кода
}

func (g *Guardian) IsCodeValid() bool {
	return g.Code != "" && g.CodeExpiresAt != nil && time.Now().Before(*g.CodeExpiresAt)
}

// RefreshCode обновляет код привязки со сроком действия 24 часа
func (g *Guardian) RefreshCode(code string) {
	g.Code = code
	expiresAt := time.Now().Add(24 * time.Hour)
	g.CodeExpiresAt = &expiresAt
}
