package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"noteflow/model"
	"noteflow/repository"
	"noteflow/services"
)

var (
	// ErrSignupRequired means the proof was valid but no account exists.
	ErrSignupRequired = errors.New("no account for this identity")
	// ErrAccountExists means a sign-up collides with an existing account.
	// Accounts are never merged silently.
	ErrAccountExists = errors.New("account already exists")
)

// Profile is the client-supplied profile accompanying a sign-up.
type Profile struct {
	Name    string
	Email   string
	Phone   string
	Picture string
}

// AuthService exchanges third-party identity proofs for application
// sessions.
type AuthService struct {
	Users  UserStore
	Tokens *services.TokenService
	Phone  services.PhoneVerifier
	Google services.GoogleVerifier
	Mailer services.Mailer
	Log    zerolog.Logger
}

func identityOf(user *model.User) model.Identity {
	return model.Identity{Email: user.Email, Phone: user.Phone, Name: user.Name}
}

// PhoneSignIn verifies an OTP-confirmed phone credential and issues a
// session for the existing account behind that number.
func (svc *AuthService) PhoneSignIn(ctx context.Context, idToken string) (*model.User, string, error) {
	phone, err := svc.Phone.Verify(ctx, idToken)
	if err != nil {
		return nil, "", err
	}

	user, err := svc.Users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrSignupRequired
		}
		return nil, "", err
	}

	token, err := svc.Tokens.Mint(identityOf(user))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// PhoneSignUp creates an account for a verified phone number. Rejects when
// the phone, or the optional profile email, already belongs to an account.
func (svc *AuthService) PhoneSignUp(ctx context.Context, idToken string, profile Profile) (*model.User, string, error) {
	phone, err := svc.Phone.Verify(ctx, idToken)
	if err != nil {
		return nil, "", err
	}

	if _, err := svc.Users.FindByPhone(ctx, phone); err == nil {
		return nil, "", fmt.Errorf("%w with this phone", ErrAccountExists)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	email := strings.TrimSpace(profile.Email)
	if email != "" {
		if _, err := svc.Users.FindByEmail(ctx, email); err == nil {
			return nil, "", fmt.Errorf("%w with this email", ErrAccountExists)
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", err
		}
	}

	user := &model.User{
		Name:    strings.TrimSpace(profile.Name),
		Email:   email,
		Phone:   strings.TrimSpace(phone),
		Picture: strings.TrimSpace(profile.Picture),
	}
	if err := svc.Users.AddUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := svc.Tokens.Mint(identityOf(user))
	if err != nil {
		return nil, "", err
	}

	svc.sendWelcome(ctx, user)
	return user, token, nil
}

// GoogleSignIn verifies a Google ID token. A known email gets a session; an
// unknown one gets prefill data back, and no account is created until the
// user confirms sign-up.
func (svc *AuthService) GoogleSignIn(ctx context.Context, idToken string) (*model.User, string, *services.GoogleClaims, error) {
	claims, err := svc.Google.Verify(ctx, idToken)
	if err != nil {
		return nil, "", nil, err
	}

	user, err := svc.Users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", claims, nil
		}
		return nil, "", nil, err
	}

	token, err := svc.Tokens.Mint(identityOf(user))
	if err != nil {
		return nil, "", nil, err
	}
	return user, token, nil, nil
}

// GoogleSignUp completes a confirmed Google sign-up. A repeat sign-up with
// a known email turns into a plain sign-in; a profile phone already bound
// to another account is a conflict.
func (svc *AuthService) GoogleSignUp(ctx context.Context, idToken string, profile Profile) (*model.User, string, error) {
	claims, err := svc.Google.Verify(ctx, idToken)
	if err != nil {
		return nil, "", err
	}

	if user, err := svc.Users.FindByEmail(ctx, claims.Email); err == nil {
		token, err := svc.Tokens.Mint(identityOf(user))
		if err != nil {
			return nil, "", err
		}
		return user, token, nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	phone := strings.TrimSpace(profile.Phone)
	if phone != "" {
		if _, err := svc.Users.FindByPhone(ctx, phone); err == nil {
			return nil, "", fmt.Errorf("%w with this phone", ErrAccountExists)
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", err
		}
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = claims.Name
	}
	picture := profile.Picture
	if picture == "" {
		picture = claims.Picture
	}

	user := &model.User{
		Name:    name,
		Email:   strings.TrimSpace(claims.Email),
		Phone:   phone,
		Picture: picture,
	}
	if err := svc.Users.AddUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := svc.Tokens.Mint(identityOf(user))
	if err != nil {
		return nil, "", err
	}

	svc.sendWelcome(ctx, user)
	return user, token, nil
}

func (svc *AuthService) sendWelcome(ctx context.Context, user *model.User) {
	if user.Email == "" {
		return
	}
	subject, body := services.WelcomeEmail(user.Name, user.Email)
	if err := svc.Mailer.Send(ctx, user.Email, subject, body); err != nil {
		svc.Log.Warn().Err(err).Msg("welcome email failed")
	}
}
