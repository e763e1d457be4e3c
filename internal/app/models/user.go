package models

import (
	"encoding/json"
	"fmt"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
		Name    string          `json:"name"`
		Email   string          `json:"email"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := opaqueID(aux.ID)
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	if id == "" {
		if id, err = opaqueID(aux.MongoID); err != nil {
			return fmt.Errorf("user _id: %w", err)
		}
	}
	*u = User{ID: id, Name: aux.Name, Email: aux.Email}
	return nil
}

// DisplayName prefers the name and falls back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// AuthResult is what a successful login or register call yields.
type AuthResult struct {
	User  User
	Token string
}

// Session is the client's belief about who is signed in and which
// credential to present. Both halves are set or neither is.
type Session struct {
	Identity   User
	Credential string
}
