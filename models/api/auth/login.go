package authapimodels

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const MinPasswordLen = 6

type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("не указано имя пользователя")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("почта имеет неправильный формат")
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLen {
		return errors.Errorf("пароль должен быть не короче %d символов", MinPasswordLen)
	}
	return nil
}

// LoginRequest вход по имени пользователя или почте
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("не указано имя пользователя")
	}
	if r.Password == "" {
		return errors.New("не указан пароль")
	}
	return nil
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}
