package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "cribhub/internal/errors"
	"cribhub/internal/model"
	"cribhub/internal/repository"
)

// CreateCribInput carries the fields of a new crib.
type CreateCribInput struct {
	Name      string
	Key       string
	CreatorID string
}

// CribService is the crib store. Read paths return enriched views, write paths return the
// stored record or the affected list.
type CribService interface {
	Create(ctx context.Context, in CreateCribInput) (*model.Crib, error)
	Update(ctx context.Context, id string, patch model.CribPatch) (*model.Crib, error)
	Delete(ctx context.Context, id string) error
	AddMembers(ctx context.Context, id string, memberIDs []string) ([]string, error)
	RemoveMember(ctx context.Context, id, memberID string) ([]string, error)
	Join(ctx context.Context, name, key, userID string) (*model.Crib, error)
	PostMessage(ctx context.Context, id, authorID, body string) ([]model.Message, error)
	Get(ctx context.Context, id string) (*model.CribView, error)
	List(ctx context.Context) ([]model.CribView, error)
	ListForUser(ctx context.Context, userID string) ([]model.CribView, error)
	ListMembers(ctx context.Context, id string) ([]model.Member, error)
}

type cribService struct {
	cribs    repository.CribRepository
	enricher *Enricher
	log      *zap.Logger
	now      func() time.Time
}

// NewCribService creates a new crib store service.
func NewCribService(cribs repository.CribRepository, enricher *Enricher, log *zap.Logger) CribService {
	return &cribService{
		cribs:    cribs,
		enricher: enricher,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new crib whose only member is its creator.
func (s *cribService) Create(ctx context.Context, in CreateCribInput) (*model.Crib, error) {
	existing, err := s.cribs.FindByName(ctx, in.Name)
	if err == nil && existing != nil {
		return nil, apperrors.ErrCribNameTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check crib name: %w", err)
	}

	crib := &model.Crib{
		Name:      in.Name,
		Key:       in.Key,
		MemberIDs: []string{in.CreatorID},
		Messages:  []model.Message{},
	}
	if err := s.cribs.Create(ctx, crib); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.ErrCribNameTaken
		}
		return nil, fmt.Errorf("create crib: %w", err)
	}

	s.log.Info("crib created", zap.String("crib_id", crib.ID), zap.String("creator_id", in.CreatorID))
	return crib, nil
}

// Update merges the supplied fields. A rename onto a name held by another crib is rejected by
// the store's unique index.
func (s *cribService) Update(ctx context.Context, id string, patch model.CribPatch) (*model.Crib, error) {
	crib, err := s.cribs.Update(ctx, id, patch)
	if err != nil {
		return nil, s.mapStoreError(err, "update crib")
	}
	return crib, nil
}

func (s *cribService) Delete(ctx context.Context, id string) error {
	if err := s.cribs.Delete(ctx, id); err != nil {
		return s.mapStoreError(err, "delete crib")
	}
	s.log.Info("crib deleted", zap.String("crib_id", id))
	return nil
}

// AddMembers unions memberIDs into the crib's member list. Ids are not checked against the
// user directory.
func (s *cribService) AddMembers(ctx context.Context, id string, memberIDs []string) ([]string, error) {
	members, err := s.cribs.AddMembers(ctx, id, memberIDs)
	if err != nil {
		return nil, s.mapStoreError(err, "add members")
	}
	return members, nil
}

// RemoveMember drops memberID from the crib. Removing an absent id succeeds.
func (s *cribService) RemoveMember(ctx context.Context, id, memberID string) ([]string, error) {
	members, err := s.cribs.RemoveMember(ctx, id, memberID)
	if err != nil {
		return nil, s.mapStoreError(err, "remove member")
	}
	return members, nil
}

// Join adds userID to the crib matching name and key exactly. Wrong name and wrong key fail
// identically.
func (s *cribService) Join(ctx context.Context, name, key, userID string) (*model.Crib, error) {
	crib, err := s.cribs.FindByNameAndKey(ctx, name, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidInvite
		}
		return nil, fmt.Errorf("find crib: %w", err)
	}
	// some collations compare case-insensitively
	if crib.Name != name || crib.Key != key {
		return nil, apperrors.ErrInvalidInvite
	}
	if crib.HasMember(userID) {
		return nil, apperrors.ErrAlreadyMember
	}

	members, err := s.cribs.AddMembers(ctx, crib.ID, []string{userID})
	if err != nil {
		return nil, s.mapStoreError(err, "join crib")
	}
	crib.MemberIDs = members

	s.log.Info("user joined crib", zap.String("crib_id", crib.ID), zap.String("user_id", userID))
	return crib, nil
}

// PostMessage appends a message stamped with the current time and returns the full log.
// Authors are not checked for membership.
func (s *cribService) PostMessage(ctx context.Context, id, authorID, body string) ([]model.Message, error) {
	messages, err := s.cribs.AppendMessage(ctx, id, model.Message{
		AuthorID: authorID,
		Body:     body,
		SentAt:   s.now(),
	})
	if err != nil {
		return nil, s.mapStoreError(err, "post message")
	}
	return messages, nil
}

func (s *cribService) Get(ctx context.Context, id string) (*model.CribView, error) {
	crib, err := s.cribs.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(err, "find crib")
	}
	view, err := s.enricher.Crib(ctx, *crib)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *cribService) List(ctx context.Context) ([]model.CribView, error) {
	cribs, err := s.cribs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cribs: %w", err)
	}
	return s.enricher.Cribs(ctx, cribs)
}

func (s *cribService) ListForUser(ctx context.Context, userID string) ([]model.CribView, error) {
	cribs, err := s.cribs.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cribs for user: %w", err)
	}
	return s.enricher.Cribs(ctx, cribs)
}

// ListMembers returns the members that resolve in the user directory, in member list order.
func (s *cribService) ListMembers(ctx context.Context, id string) ([]model.Member, error) {
	crib, err := s.cribs.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(err, "find crib")
	}
	return s.enricher.Members(ctx, crib.MemberIDs)
}

func (s *cribService) mapStoreError(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.ErrCribNotFound
	case errors.Is(err, repository.ErrDuplicateKey):
		return apperrors.ErrCribNameTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}
