package dto

import "noteflow/model"

// SignupProfile is the client-supplied profile accompanying a sign-up proof.
type SignupProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Picture string `json:"picture"`
}

type PhoneAuthRequest struct {
	IDToken string        `json:"idToken" binding:"required"`
	Profile SignupProfile `json:"profile"`
}

type GoogleAuthRequest struct {
	IDToken string        `json:"idToken" binding:"required"`
	Profile SignupProfile `json:"profile"`
}

// AuthResponse mirrors the sign-in/sign-up contract: Action is one of
// "signin", "signup" or "signup_prefill".
type AuthResponse struct {
	Action string      `json:"action"`
	User   *model.User `json:"user,omitempty"`
	// Prefill is set only for action "signup_prefill" on first Google contact.
	Prefill *SignupProfile `json:"prefill,omitempty"`
}

type MeResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          *model.Identity `json:"user,omitempty"`
}
