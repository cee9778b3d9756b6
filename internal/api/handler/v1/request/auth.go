package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Go's regexp has no lookahead.
var passwordExp = regexp2.MustCompile(`^(?=.*[A-Za-z])(?=.*\d).{8,}$`, regexp2.None)

var (
	errInvalidPassword         = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
	errConfirmPasswordMismatch = errors.New("confirm password doesn't match the password")
)

type SignupRequest struct {
	Nickname        string `json:"nickname"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	BoothName       string `json:"booth_name"`
	Location        string `json:"location"`
	Description     string `json:"description"`
}

func (req *SignupRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Nickname, validation.Required, validation.RuneLength(2, 30)),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.ConfirmPassword, validation.Required),
		validation.Field(&req.BoothName, validation.Required, validation.RuneLength(2, 50)),
		validation.Field(&req.Location, validation.RuneLength(0, 100)),
		validation.Field(&req.Description, validation.RuneLength(0, 500)),
	)
	if err != nil {
		return err
	}

	if ok, _ := passwordExp.MatchString(req.Password); !ok {
		return errInvalidPassword
	}

	if req.Password != req.ConfirmPassword {
		return errConfirmPasswordMismatch
	}

	return nil
}

type LoginRequest struct {
	Code     string `json:"code"`
	Password string `json:"password,omitempty"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 16)),
	)
}
