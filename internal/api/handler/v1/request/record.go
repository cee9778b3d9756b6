package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// ScanRequest carries whatever the QR scanner read: a bare token, a URL or a path.
type ScanRequest struct {
	Payload string `json:"payload"`
}

func (req *ScanRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Payload, validation.Required, validation.Length(1, 2048)),
	)
}

type RateBoothRequest struct {
	Stars int `json:"stars"`
}

func (req *RateBoothRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Stars, validation.Required, validation.Min(1), validation.Max(5)),
	)
}
