package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Account struct {
	ID uint `gorm:"primaryKey"`

	Role         string `gorm:"size:20;not null;index"` // "STUDENT", "BOOTH_MANAGER" or "ADMIN"
	Nickname     string `gorm:"size:50;not null;uniqueIndex"`
	LoginCode    string `gorm:"size:16;not null;uniqueIndex"`
	QRToken      string `gorm:"size:36;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:100"`

	Grade         *int
	ClassNumber   *int
	StudentNumber *int

	VisitCount int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AccountDAO struct {
	db *gorm.DB
}

func NewAccountDAO(db *gorm.DB) *AccountDAO {
	return &AccountDAO{
		db: db,
	}
}

func (d *AccountDAO) Insert(ctx context.Context, account Account) (Account, error) {
	if err := d.db.WithContext(ctx).Create(&account).Error; err != nil {
		if isUniqueViolation(err) {
			return Account{}, ErrAccountExists
		}
		return Account{}, err
	}

	return account, nil
}

// InsertBatch creates all accounts or none of them.
func (d *AccountDAO) InsertBatch(ctx context.Context, accounts []Account) ([]Account, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&accounts).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	return accounts, nil
}

// InsertBatchWithBooths creates booth managers and their booths in one transaction; booths[i] belongs to accounts[i].
func (d *AccountDAO) InsertBatchWithBooths(ctx context.Context, accounts []Account, booths []Booth) ([]Account, []Booth, error) {
	if len(accounts) != len(booths) {
		return nil, nil, ErrBatchMismatch
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&accounts).Error; err != nil {
			return err
		}
		for i := range booths {
			booths[i].OwnerID = accounts[i].ID
		}
		return tx.Create(&booths).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, ErrAccountExists
		}
		return nil, nil, err
	}

	return accounts, booths, nil
}

// InsertWithBooth creates a booth manager together with the booth they own.
func (d *AccountDAO) InsertWithBooth(ctx context.Context, account Account, booth Booth) (Account, Booth, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		booth.OwnerID = account.ID
		return tx.Create(&booth).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Account{}, Booth{}, ErrAccountExists
		}
		return Account{}, Booth{}, err
	}

	return account, booth, nil
}

func (d *AccountDAO) FindByID(ctx context.Context, id uint) (Account, error) {
	var account Account
	if err := d.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return Account{}, notFound(err, ErrAccountNotFound)
	}

	return account, nil
}

func (d *AccountDAO) FindByLoginCode(ctx context.Context, code string) (Account, error) {
	var account Account
	if err := d.db.WithContext(ctx).First(&account, "login_code = ?", code).Error; err != nil {
		return Account{}, notFound(err, ErrAccountNotFound)
	}

	return account, nil
}

func (d *AccountDAO) UpdateQRToken(ctx context.Context, id uint, token string) error {
	result := d.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Update("qr_token", token)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrAccountExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (d *AccountDAO) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Account{}).Where(column+" = ?", value).Count(&count).Error
	return count > 0, err
}

func (d *AccountDAO) ExistsLoginCode(ctx context.Context, code string) (bool, error) {
	return d.exists(ctx, "login_code", code)
}

func (d *AccountDAO) ExistsQRToken(ctx context.Context, token string) (bool, error) {
	return d.exists(ctx, "qr_token", token)
}

func (d *AccountDAO) ExistsNickname(ctx context.Context, nickname string) (bool, error) {
	return d.exists(ctx, "nickname", nickname)
}

func (d *AccountDAO) LoginCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := d.db.WithContext(ctx).Model(&Account{}).Pluck("login_code", &codes).Error
	return codes, err
}

func (d *AccountDAO) Nicknames(ctx context.Context) ([]string, error) {
	var names []string
	err := d.db.WithContext(ctx).Model(&Account{}).Pluck("nickname", &names).Error
	return names, err
}

func (d *AccountDAO) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Account{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
