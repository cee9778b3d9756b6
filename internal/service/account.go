package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/pkg/nickname"
	"github.com/vietanh2810/festival-api/internal/pkg/tokengen"
	"github.com/vietanh2810/festival-api/internal/repository"
)

// MaxProvisionBatch bounds one provisioning request.
const MaxProvisionBatch = 200

type AccountRepository interface {
	CreateBatch(ctx context.Context, accounts []domain.Account) ([]domain.Account, error)
	CreateBatchWithBooths(ctx context.Context, accounts []domain.Account, booths []domain.Booth) ([]domain.Account, []domain.Booth, error)
	FindByID(ctx context.Context, id uint) (domain.Account, error)
	UpdateQRToken(ctx context.Context, id uint, token string) error
	QRTokenTaken(ctx context.Context, token string) (bool, error)
	LoginCodes(ctx context.Context) ([]string, error)
	Nicknames(ctx context.Context) ([]string, error)
}

type AccountBoothRepository interface {
	FindByOwnerID(ctx context.Context, ownerID uint) (domain.Booth, error)
	UpdateQRToken(ctx context.Context, id uint, token string) error
	QRTokenTaken(ctx context.Context, token string) (bool, error)
}

type PointsReader interface {
	StudentPoints(ctx context.Context, studentID uint) (int64, error)
}

type AccountService struct {
	accounts     AccountRepository
	booths       AccountBoothRepository
	points       PointsReader
	tokenRetries int
}

func NewAccountService(accounts AccountRepository, booths AccountBoothRepository, points PointsReader, tokenRetries int) *AccountService {
	return &AccountService{
		accounts:     accounts,
		booths:       booths,
		points:       points,
		tokenRetries: tokenRetries,
	}
}

func (s *AccountService) GetAccount(ctx context.Context, id uint) (domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.accounts.FindByID -> %w", err)
	}

	return account, nil
}

func (s *AccountService) GetProfile(ctx context.Context, id uint) (domain.Profile, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}

	profile := domain.Profile{Account: account, QRToken: account.QRToken}

	switch account.Role {
	case domain.RoleStudent:
		profile.StudentID, _ = account.StudentID()
		profile.StudentLabel = account.StudentLabel()
		profile.TotalPoints, err = s.points.StudentPoints(ctx, account.ID)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("s.points.StudentPoints -> %w", err)
		}
	case domain.RoleBoothManager:
		booth, err := s.booths.FindByOwnerID(ctx, account.ID)
		if err == nil {
			profile.Booth = &booth
			profile.BoothQRToken = booth.QRToken
		} else if !errors.Is(err, repository.ErrBoothNotFound) {
			return domain.Profile{}, fmt.Errorf("s.booths.FindByOwnerID -> %w", err)
		}
	}

	return profile, nil
}

// RotateAccountQRToken replaces the account's QR token; the old one stops resolving at once.
func (s *AccountService) RotateAccountQRToken(ctx context.Context, id uint) (string, error) {
	token, err := uniqueQRToken(ctx, s.accounts.QRTokenTaken, s.tokenRetries)
	if err != nil {
		return "", err
	}

	if err = s.accounts.UpdateQRToken(ctx, id, token); err != nil {
		return "", fmt.Errorf("s.accounts.UpdateQRToken -> %w", err)
	}

	return token, nil
}

func (s *AccountService) RotateBoothQRToken(ctx context.Context, ownerID uint) (string, error) {
	booth, err := s.booths.FindByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			return "", ErrBoothAccessDenied
		}
		return "", fmt.Errorf("s.booths.FindByOwnerID -> %w", err)
	}

	token, err := uniqueQRToken(ctx, s.booths.QRTokenTaken, s.tokenRetries)
	if err != nil {
		return "", err
	}

	if err = s.booths.UpdateQRToken(ctx, booth.ID, token); err != nil {
		return "", fmt.Errorf("s.booths.UpdateQRToken -> %w", err)
	}

	return token, nil
}

// ProvisionStudents creates the students numbered fromNumber..toNumber of one class.
// Login codes and nicknames are checked against every existing account; the batch is all or nothing.
func (s *AccountService) ProvisionStudents(ctx context.Context, grade, classNumber, fromNumber, toNumber int) ([]domain.ProvisionedAccount, error) {
	if grade <= 0 || classNumber <= 0 || fromNumber <= 0 || toNumber < fromNumber || toNumber-fromNumber+1 > MaxProvisionBatch {
		return nil, ErrInvalidInput
	}

	codes, names, err := s.takenSets(ctx, toNumber-fromNumber+1)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, toNumber-fromNumber+1)
	for number := fromNumber; number <= toNumber; number++ {
		account, err := s.draftAccount(ctx, domain.RoleStudent, codes, names)
		if err != nil {
			return nil, err
		}
		g, c, n := grade, classNumber, number
		account.Grade, account.ClassNumber, account.StudentNumber = &g, &c, &n
		accounts = append(accounts, account)
	}

	created, err := s.accounts.CreateBatch(ctx, accounts)
	if err != nil {
		return nil, fmt.Errorf("s.accounts.CreateBatch -> %w", err)
	}

	result := make([]domain.ProvisionedAccount, 0, len(created))
	for _, account := range created {
		studentID, _ := account.StudentID()
		result = append(result, domain.ProvisionedAccount{
			Account:   account,
			LoginCode: account.LoginCode,
			StudentID: studentID,
		})
	}

	return result, nil
}

// ProvisionBoothManagers creates count booth managers, each owning a fresh booth named after them.
// Like students, the batch is all or nothing.
func (s *AccountService) ProvisionBoothManagers(ctx context.Context, count int) ([]domain.ProvisionedAccount, error) {
	if count <= 0 || count > MaxProvisionBatch {
		return nil, ErrInvalidInput
	}

	codes, names, err := s.takenSets(ctx, count)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, count)
	booths := make([]domain.Booth, 0, count)
	for i := 0; i < count; i++ {
		account, err := s.draftAccount(ctx, domain.RoleBoothManager, codes, names)
		if err != nil {
			return nil, err
		}
		boothToken, err := uniqueQRToken(ctx, s.booths.QRTokenTaken, s.tokenRetries)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
		booths = append(booths, domain.Booth{
			Name:    account.Nickname + "의 부스",
			QRToken: boothToken,
		})
	}

	created, createdBooths, err := s.accounts.CreateBatchWithBooths(ctx, accounts, booths)
	if err != nil {
		return nil, fmt.Errorf("s.accounts.CreateBatchWithBooths -> %w", err)
	}

	result := make([]domain.ProvisionedAccount, 0, len(created))
	for i, account := range created {
		result = append(result, domain.ProvisionedAccount{
			Account:   account,
			LoginCode: account.LoginCode,
			BoothID:   createdBooths[i].ID,
		})
	}

	return result, nil
}

func (s *AccountService) takenSets(ctx context.Context, want int) (codes, names tokengen.Set, err error) {
	existingCodes, err := s.accounts.LoginCodes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("s.accounts.LoginCodes -> %w", err)
	}
	existingNames, err := s.accounts.Nicknames(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("s.accounts.Nicknames -> %w", err)
	}

	if len(existingNames)+want > nickname.Capacity() {
		return nil, nil, ErrNicknamesExhausted
	}

	return tokengen.NewSet(existingCodes), tokengen.NewSet(existingNames), nil
}

func (s *AccountService) draftAccount(ctx context.Context, role domain.Role, codes, names tokengen.Set) (domain.Account, error) {
	code, err := codes.Draw(tokengen.GenerateCode, s.tokenRetries)
	if err != nil {
		return domain.Account{}, fmt.Errorf("codes.Draw -> %w", err)
	}
	name, err := names.Draw(nickname.Generate, s.tokenRetries)
	if err != nil {
		return domain.Account{}, fmt.Errorf("names.Draw -> %w", err)
	}
	token, err := uniqueQRToken(ctx, s.accounts.QRTokenTaken, s.tokenRetries)
	if err != nil {
		return domain.Account{}, err
	}

	return domain.Account{
		Role:      role,
		Nickname:  name,
		LoginCode: code,
		QRToken:   token,
	}, nil
}
