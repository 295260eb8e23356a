package model

// Identity is the resolved session identity used to own notes and address
// notifications. At least one of Email or Phone is set for a usable identity.
type Identity struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Name  string `json:"name,omitempty"`
}

// IsZero reports whether the identity carries no addressable field.
func (i Identity) IsZero() bool {
	return i.Email == "" && i.Phone == ""
}
