package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Nickname:        "부스장",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		BoothName:       "떡볶이 부스",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *SignupRequest)
	}{
		{"missing nickname", func(r *SignupRequest) { r.Nickname = "" }},
		{"password without digit", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "secretpass", "secretpass" }},
		{"password without letter", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "12345678", "12345678" }},
		{"password too short", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "abc123", "abc123" }},
		{"confirm mismatch", func(r *SignupRequest) { r.ConfirmPassword = "secret124" }},
		{"booth name too long", func(r *SignupRequest) { r.BoothName = strings.Repeat("부", 51) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestCreatePostRequest_Validate(t *testing.T) {
	req := CreatePostRequest{Content: "  안녕하세요  "}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "안녕하세요", req.Content)

	req = CreatePostRequest{Content: strings.Repeat("가", 500)}
	assert.NoError(t, req.Validate())

	req = CreatePostRequest{Content: strings.Repeat("가", 501)}
	assert.Error(t, req.Validate())

	req = CreatePostRequest{Content: " \n "}
	assert.Error(t, req.Validate())
}

func TestProvisionStudentsRequest_Validate(t *testing.T) {
	req := ProvisionStudentsRequest{Grade: 2, ClassNumber: 3, FromNumber: 1, ToNumber: 30}
	assert.NoError(t, req.Validate())

	req.ToNumber = 0
	assert.Error(t, req.Validate())

	req = ProvisionStudentsRequest{Grade: 2, ClassNumber: 3, FromNumber: 10, ToNumber: 5}
	assert.Equal(t, errInvalidRange, req.Validate())
}

func TestRateBoothRequest_Validate(t *testing.T) {
	for stars, ok := range map[int]bool{0: false, 1: true, 5: true, 6: false} {
		req := RateBoothRequest{Stars: stars}
		if ok {
			assert.NoError(t, req.Validate(), stars)
		} else {
			assert.Error(t, req.Validate(), stars)
		}
	}
}
