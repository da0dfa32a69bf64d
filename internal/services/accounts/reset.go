package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fastprodman/novabank/internal/otp"
)

// RequestPasswordReset issues a password-reset challenge to the account's
// registered email. The caller must not reveal to the requester whether the
// identifier exists (anti-enumeration); the HTTP layer answers generically
// either way.
func (s *Service) RequestPasswordReset(ctx context.Context, identifier string) (string, error) {
	acct, err := s.accounts.GetByIdentifier(ctx, identifier)
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}

	code, err := s.otps.Issue(acct.Email, otp.PurposePasswordReset, map[string]string{
		"username": acct.Username,
	})
	if err != nil {
		return "", fmt.Errorf("issue challenge: %w", err)
	}

	body := fmt.Sprintf("Your password reset code is: %s\nIt expires in 5 minutes.", code)

	err = s.notifier.Send(ctx, acct.Email, "NovaBank - Password Reset Code", body)
	if err != nil {
		slog.Warn("password reset code delivery failed", "error", err)
	}

	return acct.Email, nil
}

// ConfirmPasswordReset verifies the challenge and sets the new password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidPassword
	}

	_, err := s.otps.Verify(email, code, otp.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("verify challenge: %w", err)
	}

	err = s.accounts.UpdatePassword(ctx, email, newPassword)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// RequestPINChange validates the old PIN and the new PIN's format, then
// issues a pin-change challenge. The new PIN rides in the challenge payload
// and is only applied after verification.
func (s *Service) RequestPINChange(ctx context.Context, username, oldPIN, newPIN string) (string, error) {
	acct, err := s.accounts.GetByIdentifier(ctx, username)
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}

	if oldPIN != acct.UPIPin {
		return "", ErrInvalidPIN
	}

	if !pinPattern.MatchString(newPIN) {
		return "", ErrInvalidPINFormat
	}

	code, err := s.otps.Issue(acct.Email, otp.PurposePINChange, map[string]string{
		"username": acct.Username,
		"new_pin":  newPIN,
	})
	if err != nil {
		return "", fmt.Errorf("issue challenge: %w", err)
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour code for changing your UPI PIN is: %s\nThis code expires in 5 minutes.\n\nIf you did not request this, please ignore this email.",
		acct.Name, code,
	)

	err = s.notifier.Send(ctx, acct.Email, "NovaBank - UPI PIN Change Code", body)
	if err != nil {
		slog.Warn("pin change code delivery failed", "error", err)
	}

	return acct.Email, nil
}

// ConfirmPINChange verifies the challenge and applies the staged PIN from
// its payload.
func (s *Service) ConfirmPINChange(ctx context.Context, username, code string) error {
	acct, err := s.accounts.GetByIdentifier(ctx, username)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}

	payload, err := s.otps.Verify(acct.Email, code, otp.PurposePINChange)
	if err != nil {
		return fmt.Errorf("verify challenge: %w", err)
	}

	err = s.accounts.UpdatePIN(ctx, acct.Email, payload["new_pin"])
	if err != nil {
		return fmt.Errorf("update pin: %w", err)
	}

	return nil
}
