package client

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/models"
	"github.com/FACorreiaa/go-ticketing/pkg/auth"
)

var errMissingCredential = errors.New("response carried no credential")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authResponse struct {
	Token        string       `json:"token"`
	AccessToken  string       `json:"accessToken"`
	AccessToken2 string       `json:"access_token"`
	User         *models.User `json:"user"`
}

func (r authResponse) credential() string {
	for _, t := range []string{r.Token, r.AccessToken, r.AccessToken2} {
		if t != "" {
			return t
		}
	}
	return ""
}

func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	var out authResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return models.AuthResult{}, err
	}
	return c.authResult("login", out, models.User{Email: email})
}

func (c *Client) Register(ctx context.Context, email, password, name string) (models.AuthResult, error) {
	var out authResponse
	req := registerRequest{Email: email, Password: password, Name: name}
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", req, &out); err != nil {
		return models.AuthResult{}, err
	}
	return c.authResult("register", out, models.User{Email: email, Name: name})
}

// authResult pairs the credential with an identity. Missing identity
// fields come from the credential's claims, then from what the user typed.
func (c *Client) authResult(op string, resp authResponse, typed models.User) (models.AuthResult, error) {
	token := resp.credential()
	if token == "" {
		c.logger.Error("Ticket API auth response without credential", zap.String("operation", op))
		return models.AuthResult{}, &ServerError{Op: op, StatusCode: http.StatusOK, Err: errMissingCredential}
	}

	var user models.User
	if resp.User != nil {
		user = *resp.User
	}
	if claims, err := auth.ParseClaims(token); err == nil {
		user.ID = firstNonEmpty(user.ID, claims.UserIdentifier())
		user.Email = firstNonEmpty(user.Email, claims.Email)
		user.Name = firstNonEmpty(user.Name, claims.DisplayName())
	}
	user.Email = firstNonEmpty(user.Email, typed.Email)
	user.Name = firstNonEmpty(user.Name, typed.Name)

	return models.AuthResult{User: user, Token: token}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
