package models

type Child struct {
	ID         uint   `json:"id" gorm:"primary_key"`
	GuardianID uint   `json:"guardian_id" gorm:"index"`
	Lang       string `json:"lang"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	Birthday   string `json:"birthday"`
}
