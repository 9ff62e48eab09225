package handler

import (
	"context"
	"net/http"

	"libraryapi/commons/error_handler"
	"libraryapi/commons/handler"
	"libraryapi/internal/auth"
	"libraryapi/internal/domain"
	"libraryapi/internal/dto"
	"libraryapi/internal/logger"
	"libraryapi/internal/service"
)

type UserHandler struct {
	logger logger.Logger
	users  *service.UserService
}

func NewUserHandler(log logger.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{
		logger: log.With(logger.String("component", "user_handler")),
		users:  users,
	}
}

func (h *UserHandler) RegisterService(
	ctx context.Context,
	ioutil *handler.RequestIo[service.Credentials],
) (auth.Token, *error_handler.ErrorCollection) {
	token, err := h.users.Register(ctx, ioutil.Body)
	if domain.IsConflict(err) {
		return auth.Token{}, error_handler.Single(error_handler.CodeValidationError, "Email is already taken")
	}
	if err != nil {
		return auth.Token{}, serviceErrors(h.logger.WithContext(ctx), "register user", err)
	}
	return token, nil
}

func (h *UserHandler) LoginService(
	ctx context.Context,
	ioutil *handler.RequestIo[service.Credentials],
) (auth.Token, *error_handler.ErrorCollection) {
	token, err := h.users.Login(ctx, ioutil.Body)
	if err != nil {
		return auth.Token{}, serviceErrors(h.logger.WithContext(ctx), "login", err)
	}
	return token, nil
}

func (h *UserHandler) ListUsersService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) ([]dto.UserDTO, *error_handler.ErrorCollection) {
	users, err := h.users.List(ctx)
	if err != nil {
		return nil, serviceErrors(h.logger.WithContext(ctx), "list users", err)
	}

	out := make([]dto.UserDTO, len(users))
	for i, u := range users {
		out[i] = dto.NewUserDTO(u, auth.AdminClaim)
	}
	return out, nil
}

func (h *UserHandler) UpdateUserService(
	ctx context.Context,
	ioutil *handler.RequestIo[service.UserUpdate],
) (struct{}, *error_handler.ErrorCollection) {
	if err := h.users.Update(ctx, ioutil.Identity, ioutil.Body); err != nil {
		return struct{}{}, serviceErrors(h.logger.WithContext(ctx), "update user", err)
	}

	ioutil.SetStatus(http.StatusNoContent)
	return struct{}{}, nil
}

func (h *UserHandler) RenewTokenService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) (auth.Token, *error_handler.ErrorCollection) {
	token, err := h.users.RenewToken(ctx, ioutil.Identity)
	if err != nil {
		return auth.Token{}, serviceErrors(h.logger.WithContext(ctx), "renew token", err)
	}
	return token, nil
}

func (h *UserHandler) AddAdminService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EditClaimRequest],
) (struct{}, *error_handler.ErrorCollection) {
	return h.setAdmin(ctx, ioutil, true)
}

func (h *UserHandler) RemoveAdminService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EditClaimRequest],
) (struct{}, *error_handler.ErrorCollection) {
	return h.setAdmin(ctx, ioutil, false)
}

func (h *UserHandler) setAdmin(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EditClaimRequest],
	admin bool,
) (struct{}, *error_handler.ErrorCollection) {
	if err := h.users.SetAdmin(ctx, ioutil.Body.Email, admin); err != nil {
		return struct{}{}, serviceErrors(h.logger.WithContext(ctx), "change admin claim", err)
	}

	ioutil.SetStatus(http.StatusNoContent)
	return struct{}{}, nil
}
