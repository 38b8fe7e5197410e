package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cribhub/internal/errors"
	"cribhub/internal/model"
	"cribhub/internal/service"
	"cribhub/internal/storage"
)

// avatarField is the multipart field carrying the profile picture.
const avatarField = "pfp"

// UserHandler handles user directory endpoints.
type UserHandler struct {
	svc service.UserService
	log *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// CreateUserRequest represents the multipart registration fields.
type CreateUserRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Gender   string `form:"gender" validate:"required"`
}

// SignInRequest represents a credential check.
type SignInRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UserResponse is the client view of a user. It has no credential field.
type UserResponse struct {
	ID             string       `json:"id"`
	Username       string       `json:"username"`
	Gender         model.Gender `json:"gender"`
	AvatarLink     string       `json:"avatarLink"`
	CribIDs        []string     `json:"cribIds"`
	InteractionIDs []string     `json:"interactionIds"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// UserEnvelope wraps a single user.
type UserEnvelope struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// UsersEnvelope wraps a user list.
type UsersEnvelope struct {
	Message string         `json:"message"`
	Users   []UserResponse `json:"users"`
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Gender:         u.Gender,
		AvatarLink:     u.AvatarLink,
		CribIDs:        nonNil(u.CribIDs),
		InteractionIDs: nonNil(u.InteractionIDs),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// CreateUser godoc
// @Summary Register a user
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param gender formData string true "Gender" Enums(Male, Female, LGBTQIA++, Others)
// @Param pfp formData file false "Profile picture"
// @Success 201 {object} UserEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/create [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	avatar, cleanup, err := openAvatar(c)
	defer cleanup()
	if err != nil {
		return invalidUpload()
	}

	req := CreateUserRequest{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Gender:   c.FormValue("gender"),
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: err.Error(),
			Code:    string(errors.KindInvalid),
		})
	}

	user, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Gender:   model.Gender(req.Gender),
		Avatar:   avatar,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, UserEnvelope{Message: "User created successfully", User: toUserResponse(*user)})
}

// UpdateUser godoc
// @Summary Update a user
// @Description Only the supplied fields change. A new password is re-hashed and a new picture replaces the avatar link.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param userId path string true "User ID"
// @Param username formData string false "Username"
// @Param password formData string false "Password"
// @Param gender formData string false "Gender" Enums(Male, Female, LGBTQIA++, Others)
// @Param pfp formData file false "Profile picture"
// @Success 200 {object} UserEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/update/{userId} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	avatar, cleanup, err := openAvatar(c)
	defer cleanup()
	if err != nil {
		return invalidUpload()
	}

	in := service.UpdateUserInput{Avatar: avatar}
	if v := c.FormValue("username"); v != "" {
		in.Username = &v
	}
	if v := c.FormValue("password"); v != "" {
		in.Password = &v
	}
	if v := c.FormValue("gender"); v != "" {
		g := model.Gender(v)
		in.Gender = &g
	}

	user, err := h.svc.Update(c.Request().Context(), c.Param("userId"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, UserEnvelope{Message: "User updated successfully", User: toUserResponse(*user)})
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} UsersEnvelope
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, UsersEnvelope{Message: "Users fetched successfully", Users: out})
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} UserEnvelope
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/{userId} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.svc.Get(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, UserEnvelope{Message: "User fetched successfully", User: toUserResponse(*user)})
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Crib memberships and authored messages are kept.
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/{userId} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("userId")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// SignIn godoc
// @Summary Check a credential
// @Description Returns the user on success. No session or token is issued.
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} UserEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/signin [post]
func (h *UserHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, UserEnvelope{Message: "Sign-in successful", User: toUserResponse(*user)})
}

// openAvatar opens the optional profile picture of a multipart request. The returned cleanup
// closes the file and removes any temporary files of the parsed form, and must always be called.
func openAvatar(c echo.Context) (*storage.Upload, func(), error) {
	cleanup := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, cleanup, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, cleanup, err
	}
	cleanup = func() { _ = form.RemoveAll() }

	headers := form.File[avatarField]
	if len(headers) == 0 {
		return nil, cleanup, nil
	}
	fh := headers[0]
	file, err := fh.Open()
	if err != nil {
		return nil, cleanup, err
	}
	removeAll := cleanup
	cleanup = func() {
		_ = file.Close()
		removeAll()
	}

	return &storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        file,
	}, cleanup, nil
}

func invalidUpload() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Message: "Invalid multipart form",
		Code:    string(errors.KindInvalid),
	})
}
