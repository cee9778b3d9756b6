package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleStudent      Role = "STUDENT"
	RoleBoothManager Role = "BOOTH_MANAGER"
	RoleAdmin        Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleBoothManager, RoleAdmin:
		return true
	}
	return false
}

const MissingStudentLabel = "학년 정보 없음"

type Account struct {
	ID            uint      `json:"id"`
	Role          Role      `json:"role"`
	Nickname      string    `json:"nickname"`
	LoginCode     string    `json:"-"`
	QRToken       string    `json:"-"`
	PasswordHash  string    `json:"-"`
	Grade         *int      `json:"grade,omitempty"`
	ClassNumber   *int      `json:"class_number,omitempty"`
	StudentNumber *int      `json:"student_number,omitempty"`
	VisitCount    int       `json:"visit_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (a Account) StudentLabel() string {
	return FormatStudentLabel(a.Grade, a.ClassNumber, a.StudentNumber)
}

func (a Account) StudentID() (string, bool) {
	return FormatStudentID(a.Grade, a.ClassNumber, a.StudentNumber)
}

// FormatStudentLabel renders "2학년 3반 15번", or MissingStudentLabel when any part is absent.
func FormatStudentLabel(grade, classNumber, studentNumber *int) string {
	if grade == nil || classNumber == nil || studentNumber == nil {
		return MissingStudentLabel
	}
	return fmt.Sprintf("%d학년 %d반 %d번", *grade, *classNumber, *studentNumber)
}

// FormatStudentID renders grade unpadded followed by class and number padded to two digits,
// e.g. 1/12/27 -> "11227".
func FormatStudentID(grade, classNumber, studentNumber *int) (string, bool) {
	if grade == nil || classNumber == nil || studentNumber == nil {
		return "", false
	}
	return fmt.Sprintf("%d%02d%02d", *grade, *classNumber, *studentNumber), true
}

// ProvisionedAccount is handed out once, right after creation, with the login code in clear.
type ProvisionedAccount struct {
	Account   Account `json:"account"`
	LoginCode string  `json:"login_code"`
	StudentID string  `json:"student_id,omitempty"`
	BoothID   uint    `json:"booth_id,omitempty"`
}

// Profile is what an account sees about itself.
type Profile struct {
	Account
	StudentID    string `json:"student_id,omitempty"`
	StudentLabel string `json:"student_label,omitempty"`
	QRToken      string `json:"qr_token"`
	TotalPoints  int64  `json:"total_points"`
	Booth        *Booth `json:"booth,omitempty"`
	BoothQRToken string `json:"booth_qr_token,omitempty"`
}
