package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cribhub/internal/model"
	"cribhub/internal/service"
)

// CribHandler handles crib endpoints.
type CribHandler struct {
	svc service.CribService
	log *zap.Logger
}

// NewCribHandler creates a new crib handler.
func NewCribHandler(svc service.CribService, log *zap.Logger) *CribHandler {
	return &CribHandler{svc: svc, log: log}
}

// CreateCribRequest represents a crib creation request.
type CreateCribRequest struct {
	Name      string `json:"name" validate:"required"`
	Key       string `json:"key" validate:"required"`
	CreatorID string `json:"creatorId" validate:"required"`
}

// UpdateCribRequest represents a partial crib update.
type UpdateCribRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1"`
	Key  *string `json:"key" validate:"omitempty,min=1"`
}

// AddMembersRequest represents a member union.
type AddMembersRequest struct {
	MemberIDs []string `json:"memberIds" validate:"required,dive,required"`
}

// PostMessageRequest represents a new message.
type PostMessageRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// JoinCribRequest represents a join by invite key.
type JoinCribRequest struct {
	Name   string `json:"name" validate:"required"`
	Key    string `json:"key" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

// CribEnvelope wraps a stored crib.
type CribEnvelope struct {
	Message string     `json:"message"`
	Crib    model.Crib `json:"crib"`
}

// CribViewEnvelope wraps an enriched crib.
type CribViewEnvelope struct {
	Message string         `json:"message"`
	Crib    model.CribView `json:"crib"`
}

// CribViewsEnvelope wraps a list of enriched cribs.
type CribViewsEnvelope struct {
	Message string           `json:"message"`
	Cribs   []model.CribView `json:"cribs"`
}

// MemberIDsEnvelope wraps a member id list.
type MemberIDsEnvelope struct {
	Message   string   `json:"message"`
	MemberIDs []string `json:"memberIds"`
}

// MembersEnvelope wraps a resolved member list.
type MembersEnvelope struct {
	Message string         `json:"message"`
	Members []model.Member `json:"members"`
}

// MessagesEnvelope wraps a crib's message log.
type MessagesEnvelope struct {
	Message  string          `json:"message"`
	Messages []model.Message `json:"messages"`
}

// JoinEnvelope is returned after joining a crib.
type JoinEnvelope struct {
	Message   string   `json:"message"`
	CribID    string   `json:"cribId"`
	MemberIDs []string `json:"memberIds"`
}

// CreateCrib godoc
// @Summary Create a crib
// @Description The creator becomes the only member.
// @Tags cribs
// @Accept json
// @Produce json
// @Param request body CreateCribRequest true "Crib data"
// @Success 201 {object} CribEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /crib/create [post]
func (h *CribHandler) CreateCrib(c echo.Context) error {
	var req CreateCribRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	crib, err := h.svc.Create(c.Request().Context(), service.CreateCribInput{
		Name:      req.Name,
		Key:       req.Key,
		CreatorID: req.CreatorID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, CribEnvelope{Message: "Crib created successfully", Crib: *crib})
}

// UpdateCrib godoc
// @Summary Update a crib
// @Tags cribs
// @Accept json
// @Produce json
// @Param cribId path string true "Crib ID"
// @Param request body UpdateCribRequest true "Fields to change"
// @Success 200 {object} CribEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /crib/update/{cribId} [put]
func (h *CribHandler) UpdateCrib(c echo.Context) error {
	var req UpdateCribRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	crib, err := h.svc.Update(c.Request().Context(), c.Param("cribId"), model.CribPatch{Name: req.Name, Key: req.Key})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, CribEnvelope{Message: "Crib updated", Crib: *crib})
}

// ListCribs godoc
// @Summary List cribs
// @Description Messages carry their author's username and avatar.
// @Tags cribs
// @Produce json
// @Success 200 {object} CribViewsEnvelope
// @Failure 500 {object} errors.ErrorResponse
// @Router /cribs [get]
func (h *CribHandler) ListCribs(c echo.Context) error {
	cribs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, CribViewsEnvelope{Message: "Cribs fetched successfully", Cribs: cribs})
}

// GetCrib godoc
// @Summary Get a crib
// @Tags cribs
// @Produce json
// @Param cribId path string true "Crib ID"
// @Success 200 {object} CribViewEnvelope
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /crib/{cribId} [get]
func (h *CribHandler) GetCrib(c echo.Context) error {
	crib, err := h.svc.Get(c.Request().Context(), c.Param("cribId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, CribViewEnvelope{Message: "Crib fetched successfully", Crib: *crib})
}

// DeleteCrib godoc
// @Summary Delete a crib
// @Tags cribs
// @Produce json
// @Param cribId path string true "Crib ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /crib/{cribId} [delete]
func (h *CribHandler) DeleteCrib(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("cribId")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Crib deleted"})
}

// AddMembers godoc
// @Summary Add members
// @Description Unions the ids into the member list. Ids are not checked against the user directory.
// @Tags cribs
// @Accept json
// @Produce json
// @Param cribId path string true "Crib ID"
// @Param request body AddMembersRequest true "Member ids"
// @Success 200 {object} MemberIDsEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /crib/{cribId}/members [put]
func (h *CribHandler) AddMembers(c echo.Context) error {
	var req AddMembersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	members, err := h.svc.AddMembers(c.Request().Context(), c.Param("cribId"), req.MemberIDs)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, MemberIDsEnvelope{Message: "Members added", MemberIDs: members})
}

// RemoveMember godoc
// @Summary Remove a member
// @Tags cribs
// @Produce json
// @Param cribId path string true "Crib ID"
// @Param memberId path string true "Member user ID"
// @Success 200 {object} MemberIDsEnvelope
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /crib/{cribId}/member/{memberId} [delete]
func (h *CribHandler) RemoveMember(c echo.Context) error {
	members, err := h.svc.RemoveMember(c.Request().Context(), c.Param("cribId"), c.Param("memberId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, MemberIDsEnvelope{Message: "Member removed", MemberIDs: members})
}

// PostMessage godoc
// @Summary Post a message
// @Tags cribs
// @Accept json
// @Produce json
// @Param cribId path string true "Crib ID"
// @Param request body PostMessageRequest true "Message"
// @Success 200 {object} MessagesEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /crib/{cribId}/message [post]
func (h *CribHandler) PostMessage(c echo.Context) error {
	var req PostMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	messages, err := h.svc.PostMessage(c.Request().Context(), c.Param("cribId"), req.UserID, req.Message)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, MessagesEnvelope{Message: "Message sent", Messages: messages})
}

// ListUserCribs godoc
// @Summary List a user's cribs
// @Tags cribs
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} CribViewsEnvelope
// @Failure 500 {object} errors.ErrorResponse
// @Router /cribs/user/{userId} [get]
func (h *CribHandler) ListUserCribs(c echo.Context) error {
	userID := c.Param("userId")
	cribs, err := h.svc.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, CribViewsEnvelope{Message: "Cribs for user " + userID, Cribs: cribs})
}

// ListMembers godoc
// @Summary List crib members
// @Description Members are listed in member list order. Ids without a user are skipped.
// @Tags cribs
// @Produce json
// @Param cribId path string true "Crib ID"
// @Success 200 {object} MembersEnvelope
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /crib/{cribId}/members [get]
func (h *CribHandler) ListMembers(c echo.Context) error {
	members, err := h.svc.ListMembers(c.Request().Context(), c.Param("cribId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, MembersEnvelope{Message: "Crib members fetched successfully", Members: members})
}

// JoinCrib godoc
// @Summary Join a crib by invite key
// @Description Wrong name and wrong key are reported identically.
// @Tags cribs
// @Accept json
// @Produce json
// @Param request body JoinCribRequest true "Invite"
// @Success 200 {object} JoinEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /crib/join [post]
func (h *CribHandler) JoinCrib(c echo.Context) error {
	var req JoinCribRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	crib, err := h.svc.Join(c.Request().Context(), req.Name, req.Key, req.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, JoinEnvelope{
		Message:   "User successfully added to the crib",
		CribID:    crib.ID,
		MemberIDs: crib.MemberIDs,
	})
}
