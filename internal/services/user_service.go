package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
	"github.com/adanyl0v/go-todo-tasks/internal/storage"
)

type userServiceImpl struct {
	logger zerolog.Logger
	users  storage.UserRepository
}

func NewUserService(
	logger zerolog.Logger,
	users storage.UserRepository,
) UserService {
	return &userServiceImpl{
		logger: logger,
		users:  users,
	}
}

func (s *userServiceImpl) RegisterUser(ctx context.Context, params RegisterUserParams) (*models.User, error) {
	err := requireFields(
		"name", params.Name,
		"email", params.Email,
	)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(params.Name, params.Email)
	err = s.users.InsertUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to insert user")
		return nil, translateStorageError(err, ErrUserNotFound)
	}
	s.logger.Debug().
		Str("user_id", user.ID.Hex()).
		Str("email", user.Email).
		Msg("inserted user")

	s.logger.Info().
		Str("user_id", user.ID.Hex()).
		Msg("registered user")
	return user, nil
}
