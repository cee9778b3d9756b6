package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/pkg/tokengen"
	"github.com/vietanh2810/festival-api/internal/repository"
)

const adminNickname = "관리자"

type AuthAccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	CreateWithBooth(ctx context.Context, account domain.Account, booth domain.Booth) (domain.Account, domain.Booth, error)
	FindByLoginCode(ctx context.Context, code string) (domain.Account, error)
	LoginCodeTaken(ctx context.Context, code string) (bool, error)
	QRTokenTaken(ctx context.Context, token string) (bool, error)
	NicknameTaken(ctx context.Context, nickname string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

type BoothTokenChecker interface {
	QRTokenTaken(ctx context.Context, token string) (bool, error)
}

// BoothManagerSignup is a self-registration request.
type BoothManagerSignup struct {
	Nickname    string
	Password    string
	BoothName   string
	Location    string
	Description string
}

type AuthService struct {
	accounts     AuthAccountRepository
	booths       BoothTokenChecker
	tokenRetries int
}

func NewAuthService(accounts AuthAccountRepository, booths BoothTokenChecker, tokenRetries int) *AuthService {
	return &AuthService{
		accounts:     accounts,
		booths:       booths,
		tokenRetries: tokenRetries,
	}
}

func (s *AuthService) SignupBoothManager(ctx context.Context, signup BoothManagerSignup) (domain.ProvisionedAccount, error) {
	taken, err := s.accounts.NicknameTaken(ctx, signup.Nickname)
	if err != nil {
		return domain.ProvisionedAccount{}, fmt.Errorf("s.accounts.NicknameTaken -> %w", err)
	}
	if taken {
		return domain.ProvisionedAccount{}, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.ProvisionedAccount{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	code, err := s.uniqueLoginCode(ctx)
	if err != nil {
		return domain.ProvisionedAccount{}, err
	}
	accountToken, err := uniqueQRToken(ctx, s.accounts.QRTokenTaken, s.tokenRetries)
	if err != nil {
		return domain.ProvisionedAccount{}, err
	}
	boothToken, err := uniqueQRToken(ctx, s.booths.QRTokenTaken, s.tokenRetries)
	if err != nil {
		return domain.ProvisionedAccount{}, err
	}

	account, booth, err := s.accounts.CreateWithBooth(ctx, domain.Account{
		Role:         domain.RoleBoothManager,
		Nickname:     signup.Nickname,
		LoginCode:    code,
		QRToken:      accountToken,
		PasswordHash: string(hash),
	}, domain.Booth{
		Name:        signup.BoothName,
		Location:    signup.Location,
		Description: signup.Description,
		QRToken:     boothToken,
	})
	if err != nil {
		return domain.ProvisionedAccount{}, fmt.Errorf("s.accounts.CreateWithBooth -> %w", err)
	}

	return domain.ProvisionedAccount{Account: account, LoginCode: code, BoothID: booth.ID}, nil
}

// Login resolves a login code. Accounts holding a password hash must also present the password.
func (s *AuthService) Login(ctx context.Context, code, password string) (domain.Account, error) {
	account, err := s.accounts.FindByLoginCode(ctx, NormalizeLoginCode(code))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domain.Account{}, ErrWrongCredentials
		}

		return domain.Account{}, fmt.Errorf("s.accounts.FindByLoginCode -> %w", err)
	}

	if account.PasswordHash != "" {
		if err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
			return domain.Account{}, ErrWrongCredentials
		}
	}

	return account, nil
}

// BootstrapAdmin creates the first administrator when none exists. It reports whether one was created.
func (s *AuthService) BootstrapAdmin(ctx context.Context, code, password string) (bool, error) {
	code = NormalizeLoginCode(code)
	if code == "" {
		return false, nil
	}

	count, err := s.accounts.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("s.accounts.CountByRole -> %w", err)
	}
	if count > 0 {
		return false, nil
	}

	account := domain.Account{
		Role:      domain.RoleAdmin,
		Nickname:  adminNickname,
		LoginCode: code,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return false, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
		}
		account.PasswordHash = string(hash)
	}
	account.QRToken, err = uniqueQRToken(ctx, s.accounts.QRTokenTaken, s.tokenRetries)
	if err != nil {
		return false, err
	}

	if _, err = s.accounts.Create(ctx, account); err != nil {
		return false, fmt.Errorf("s.accounts.Create -> %w", err)
	}

	return true, nil
}

func (s *AuthService) uniqueLoginCode(ctx context.Context) (string, error) {
	code, err := tokengen.Unique(tokengen.GenerateCode, func(v string) (bool, error) {
		return s.accounts.LoginCodeTaken(ctx, v)
	}, s.tokenRetries)
	if err != nil {
		return "", fmt.Errorf("tokengen.Unique -> %w", err)
	}

	return code, nil
}

func uniqueQRToken(ctx context.Context, taken func(context.Context, string) (bool, error), retries int) (string, error) {
	token, err := tokengen.Unique(tokengen.GenerateQRToken, func(v string) (bool, error) {
		return taken(ctx, v)
	}, retries)
	if err != nil {
		return "", fmt.Errorf("tokengen.Unique -> %w", err)
	}

	return token, nil
}

// NormalizeLoginCode trims and upper-cases a typed login code.
func NormalizeLoginCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
