package services

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// The verifiers treat their respective identity providers as opaque
// oracles: a proof is either exchanged for a verified claim or rejected.

// GoogleClaims is the verified identity extracted from a Google ID token.
type GoogleClaims struct {
	Email   string
	Name    string
	Picture string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, rawToken string) (*GoogleClaims, error)
}

// PhoneVerifier checks an OTP-confirmed phone credential and returns the
// verified phone number.
type PhoneVerifier interface {
	Verify(ctx context.Context, rawToken string) (string, error)
}

// GoogleIDTokenVerifier validates Google ID tokens against the configured
// OAuth client audience.
type GoogleIDTokenVerifier struct {
	audience string
}

func NewGoogleIDTokenVerifier(clientID string) *GoogleIDTokenVerifier {
	return &GoogleIDTokenVerifier{audience: clientID}
}

func (v *GoogleIDTokenVerifier) Verify(ctx context.Context, rawToken string) (*GoogleClaims, error) {
	if v.audience == "" {
		return nil, errors.New("google sign-in is not configured")
	}

	payload, err := idtoken.Validate(ctx, rawToken, v.audience)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", err)
	}

	claims := &GoogleClaims{}
	if email, ok := payload.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		claims.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		claims.Picture = picture
	}
	if claims.Email == "" {
		return nil, errors.New("google token carries no email")
	}
	return claims, nil
}

// FirebasePhoneVerifier checks Firebase ID tokens produced by the phone OTP
// flow. The OTP exchange itself happens client-side against Firebase; the
// server only sees the resulting token.
type FirebasePhoneVerifier struct {
	client *auth.Client
}

func NewFirebasePhoneVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebasePhoneVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase auth: %w", err)
	}
	return &FirebasePhoneVerifier{client: client}, nil
}

func (v *FirebasePhoneVerifier) Verify(ctx context.Context, rawToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return "", fmt.Errorf("invalid phone token: %w", err)
	}

	phone, _ := token.Claims["phone_number"].(string)
	if phone == "" {
		return "", errors.New("phone token carries no phone number")
	}
	return phone, nil
}
