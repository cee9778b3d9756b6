package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

const maxBatch = 200

var errInvalidRange = errors.New("to_number must not be lower than from_number")

type ProvisionStudentsRequest struct {
	Grade       int `json:"grade"`
	ClassNumber int `json:"class_number"`
	FromNumber  int `json:"from_number"`
	ToNumber    int `json:"to_number"`
}

func (req *ProvisionStudentsRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Grade, validation.Required, validation.Min(1), validation.Max(9)),
		validation.Field(&req.ClassNumber, validation.Required, validation.Min(1), validation.Max(99)),
		validation.Field(&req.FromNumber, validation.Required, validation.Min(1), validation.Max(99)),
		validation.Field(&req.ToNumber, validation.Required, validation.Min(1), validation.Max(99)),
	)
	if err != nil {
		return err
	}

	if req.ToNumber < req.FromNumber {
		return errInvalidRange
	}

	return nil
}

type ProvisionBoothManagersRequest struct {
	Count int `json:"count"`
}

func (req *ProvisionBoothManagersRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Count, validation.Required, validation.Min(1), validation.Max(maxBatch)),
	)
}
