package response

import "github.com/vietanh2810/festival-api/internal/domain"

type LoginResponse struct {
	Token   string         `json:"token"`
	Account domain.Account `json:"account"`
}

type SignupResponse struct {
	Account   domain.Account `json:"account"`
	LoginCode string         `json:"login_code"`
	BoothID   uint           `json:"booth_id"`
}

type QRTokenResponse struct {
	QRToken string `json:"qr_token"`
}

type ProvisionResponse struct {
	Accounts []domain.ProvisionedAccount `json:"accounts"`
}

type PostsResponse struct {
	Posts []domain.Post `json:"posts"`
	// NextBefore is passed back as ?before= to load the following page; absent on the last page.
	NextBefore *uint `json:"next_before,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}
