package accounts

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/novabank/internal/repos/accounts"
)

type RegisterParams struct {
	Name     string
	Email    string
	Phone    string
	DOB      string // YYYY-MM-DD
	Address  string
	Username string
	Password string
	UPIPin   string
}

// Register creates an account with a fresh random 10-digit account number
// and zero balance. Uniqueness of username, email and phone is enforced by
// the store; a collision surfaces as accounts.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, p RegisterParams) (string, error) {
	dob, err := time.Parse("2006-01-02", p.DOB)
	if err != nil {
		return "", ErrInvalidDOB
	}

	if s.now().Year()-dob.Year() < 18 {
		return "", ErrUnderage
	}

	if p.Password == "" {
		return "", ErrInvalidPassword
	}

	if !pinPattern.MatchString(p.UPIPin) {
		return "", ErrInvalidPINFormat
	}

	accountNumber, err := generateAccountNumber()
	if err != nil {
		return "", fmt.Errorf("generate account number: %w", err)
	}

	err = s.accounts.Create(ctx, accounts.Account{
		AccountNumber: accountNumber,
		Username:      p.Username,
		Password:      p.Password,
		Name:          p.Name,
		Email:         p.Email,
		Phone:         p.Phone,
		DOB:           p.DOB,
		Address:       p.Address,
		UPIPin:        p.UPIPin,
		Balance:       decimal.Zero,
	})
	if err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}

	return accountNumber, nil
}

// Authenticate matches the identifier (username, email or phone) and
// compares the password. A missing account and a wrong password are not
// distinguished.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (accounts.Account, error) {
	acct, err := s.accounts.GetByIdentifier(ctx, identifier)
	if err != nil {
		return accounts.Account{}, ErrInvalidCredentials
	}

	if acct.Password != password {
		return accounts.Account{}, ErrInvalidCredentials
	}

	return acct, nil
}

// generateAccountNumber draws a uniformly random 10-digit number.
func generateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9_000_000_000))
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	return fmt.Sprintf("%d", n.Int64()+1_000_000_000), nil
}
