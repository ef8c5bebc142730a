package authhandler

import (
	"time"

	usersstore "interview-coach-backend/lib/users/store"
	apperrors "interview-coach-backend/lib/utils/app-errors"
	authutils "interview-coach-backend/lib/utils/auth-utils"
	authapimodels "interview-coach-backend/models/api/auth"
	dbmodels "interview-coach-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Register(request authapimodels.RegisterRequest) (authapimodels.User, error)
	Login(request authapimodels.LoginRequest) (authapimodels.JWTResponse, error)
	Me(userID string) (authapimodels.User, error)
}

type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewHandler(cfg Config, store usersstore.Provider) Provider {
	return impl{
		cfg:   cfg,
		store: store,
		now:   time.Now,
	}
}

type impl struct {
	cfg   Config
	store usersstore.Provider
	now   func() time.Time
}

func (i impl) Register(request authapimodels.RegisterRequest) (authapimodels.User, error) {
	logger := log.
		WithField("username", request.Username).
		WithField("email", request.Email)
	exist, err := i.store.Exist(request.Username, request.Email)
	if err != nil {
		logger.WithError(err).Error("ошибка проверки существования пользователя")
		return authapimodels.User{}, err
	}
	if exist {
		return authapimodels.User{}, apperrors.Validation("пользователь с таким именем или почтой уже существует")
	}
	hash, err := authutils.HashPassword(request.Password)
	if err != nil {
		logger.WithError(err).Error("ошибка хеширования пароля")
		return authapimodels.User{}, err
	}
	rec := dbmodels.User{
		Username: request.Username,
		Name:     request.Name,
		Email:    request.Email,
		Password: hash,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания пользователя")
		return authapimodels.User{}, err
	}
	rec.ID = id
	logger.WithField("user_id", id).Info("пользователь зарегистрирован")
	return rec.ToModel(), nil
}

func (i impl) Login(request authapimodels.LoginRequest) (authapimodels.JWTResponse, error) {
	logger := log.WithField("login", request.Username)
	user, err := i.store.FindByLogin(request.Username)
	if err != nil {
		logger.WithError(err).Error("ошибка поиска пользователя")
		return authapimodels.JWTResponse{}, err
	}
	if user == nil {
		logger.Debug("пользователь не найден")
		return authapimodels.JWTResponse{}, errors.Wrap(apperrors.ErrAuth, "неверное имя пользователя или пароль")
	}
	if !authutils.CheckPassword(user.Password, request.Password) {
		logger.Debug("пользователь не прошел проверку пароля")
		return authapimodels.JWTResponse{}, errors.Wrap(apperrors.ErrAuth, "неверное имя пользователя или пароль")
	}
	token, err := authutils.GetToken(i.cfg.JWTSecret, i.cfg.TokenTTL, user.ID, user.Name)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации JWT")
		return authapimodels.JWTResponse{}, err
	}
	if err = i.store.UpdateLastLogin(user.ID, i.now()); err != nil {
		logger.WithError(err).Error("ошибка обновления даты последнего входа")
	}
	return authapimodels.JWTResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int64(i.cfg.TokenTTL.Seconds()),
	}, nil
}

func (i impl) Me(userID string) (authapimodels.User, error) {
	user, err := i.store.GetByID(userID)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("ошибка получения пользователя")
		return authapimodels.User{}, err
	}
	if user == nil {
		return authapimodels.User{}, errors.Wrap(apperrors.ErrAuth, "пользователь не найден")
	}
	return user.ToModel(), nil
}
