package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

var (
	ErrAccountExists   = dao.ErrAccountExists
	ErrAccountNotFound = dao.ErrAccountNotFound
)

type AccountDAO interface {
	Insert(ctx context.Context, account dao.Account) (dao.Account, error)
	InsertBatch(ctx context.Context, accounts []dao.Account) ([]dao.Account, error)
	InsertWithBooth(ctx context.Context, account dao.Account, booth dao.Booth) (dao.Account, dao.Booth, error)
	InsertBatchWithBooths(ctx context.Context, accounts []dao.Account, booths []dao.Booth) ([]dao.Account, []dao.Booth, error)
	FindByID(ctx context.Context, id uint) (dao.Account, error)
	FindByLoginCode(ctx context.Context, code string) (dao.Account, error)
	UpdateQRToken(ctx context.Context, id uint, token string) error
	ExistsLoginCode(ctx context.Context, code string) (bool, error)
	ExistsQRToken(ctx context.Context, token string) (bool, error)
	ExistsNickname(ctx context.Context, nickname string) (bool, error)
	LoginCodes(ctx context.Context) ([]string, error)
	Nicknames(ctx context.Context) ([]string, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

type AccountRepository struct {
	dao AccountDAO
}

func NewAccountRepository(dao AccountDAO) *AccountRepository {
	return &AccountRepository{
		dao: dao,
	}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	created, err := r.dao.Insert(ctx, accountToDAO(account))
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return accountToDomain(created), nil
}

func (r *AccountRepository) CreateBatch(ctx context.Context, accounts []domain.Account) ([]domain.Account, error) {
	rows := make([]dao.Account, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, accountToDAO(a))
	}

	created, err := r.dao.InsertBatch(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertBatch -> %w", err)
	}

	result := make([]domain.Account, 0, len(created))
	for _, a := range created {
		result = append(result, accountToDomain(a))
	}

	return result, nil
}

func (r *AccountRepository) CreateWithBooth(ctx context.Context, account domain.Account, booth domain.Booth) (domain.Account, domain.Booth, error) {
	createdAccount, createdBooth, err := r.dao.InsertWithBooth(ctx, accountToDAO(account), boothToDAO(booth))
	if err != nil {
		return domain.Account{}, domain.Booth{}, fmt.Errorf("r.dao.InsertWithBooth -> %w", err)
	}

	return accountToDomain(createdAccount), boothToDomain(createdBooth), nil
}

// CreateBatchWithBooths is all or nothing: either every manager and booth is stored or none is.
func (r *AccountRepository) CreateBatchWithBooths(ctx context.Context, accounts []domain.Account, booths []domain.Booth) ([]domain.Account, []domain.Booth, error) {
	accountRows := make([]dao.Account, 0, len(accounts))
	for _, a := range accounts {
		accountRows = append(accountRows, accountToDAO(a))
	}
	boothRows := make([]dao.Booth, 0, len(booths))
	for _, b := range booths {
		boothRows = append(boothRows, boothToDAO(b))
	}

	createdAccounts, createdBooths, err := r.dao.InsertBatchWithBooths(ctx, accountRows, boothRows)
	if err != nil {
		return nil, nil, fmt.Errorf("r.dao.InsertBatchWithBooths -> %w", err)
	}

	resultAccounts := make([]domain.Account, 0, len(createdAccounts))
	for _, a := range createdAccounts {
		resultAccounts = append(resultAccounts, accountToDomain(a))
	}
	resultBooths := make([]domain.Booth, 0, len(createdBooths))
	for _, b := range createdBooths {
		resultBooths = append(resultBooths, boothToDomain(b))
	}

	return resultAccounts, resultBooths, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint) (domain.Account, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return accountToDomain(found), nil
}

func (r *AccountRepository) FindByLoginCode(ctx context.Context, code string) (domain.Account, error) {
	found, err := r.dao.FindByLoginCode(ctx, code)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindByLoginCode -> %w", err)
	}

	return accountToDomain(found), nil
}

func (r *AccountRepository) UpdateQRToken(ctx context.Context, id uint, token string) error {
	if err := r.dao.UpdateQRToken(ctx, id, token); err != nil {
		return fmt.Errorf("r.dao.UpdateQRToken -> %w", err)
	}

	return nil
}

func (r *AccountRepository) LoginCodeTaken(ctx context.Context, code string) (bool, error) {
	return r.dao.ExistsLoginCode(ctx, code)
}

func (r *AccountRepository) QRTokenTaken(ctx context.Context, token string) (bool, error) {
	return r.dao.ExistsQRToken(ctx, token)
}

func (r *AccountRepository) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	return r.dao.ExistsNickname(ctx, nickname)
}

func (r *AccountRepository) LoginCodes(ctx context.Context) ([]string, error) {
	codes, err := r.dao.LoginCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.LoginCodes -> %w", err)
	}

	return codes, nil
}

func (r *AccountRepository) Nicknames(ctx context.Context) ([]string, error) {
	names, err := r.dao.Nicknames(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Nicknames -> %w", err)
	}

	return names, nil
}

func (r *AccountRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	count, err := r.dao.CountByRole(ctx, string(role))
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByRole -> %w", err)
	}

	return count, nil
}

func accountToDomain(a dao.Account) domain.Account {
	return domain.Account{
		ID:            a.ID,
		Role:          domain.Role(a.Role),
		Nickname:      a.Nickname,
		LoginCode:     a.LoginCode,
		QRToken:       a.QRToken,
		PasswordHash:  a.PasswordHash,
		Grade:         a.Grade,
		ClassNumber:   a.ClassNumber,
		StudentNumber: a.StudentNumber,
		VisitCount:    a.VisitCount,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func accountToDAO(a domain.Account) dao.Account {
	return dao.Account{
		ID:            a.ID,
		Role:          string(a.Role),
		Nickname:      a.Nickname,
		LoginCode:     a.LoginCode,
		QRToken:       a.QRToken,
		PasswordHash:  a.PasswordHash,
		Grade:         a.Grade,
		ClassNumber:   a.ClassNumber,
		StudentNumber: a.StudentNumber,
		VisitCount:    a.VisitCount,
	}
}
