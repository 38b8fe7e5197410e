package service

import (
	"context"
	"fmt"

	"cribhub/internal/model"
	"cribhub/internal/repository"
)

// UnknownUsername is shown for authors that no longer resolve.
const UnknownUsername = "Unknown"

// Enricher decorates stored messages with their authors' display data at read time.
// It never writes and never caches.
type Enricher struct {
	users repository.UserRepository
}

// NewEnricher creates an enricher resolving authors through users.
func NewEnricher(users repository.UserRepository) *Enricher {
	return &Enricher{users: users}
}

// Crib enriches a single crib.
func (e *Enricher) Crib(ctx context.Context, crib model.Crib) (model.CribView, error) {
	views, err := e.Cribs(ctx, []model.Crib{crib})
	if err != nil {
		return model.CribView{}, err
	}
	return views[0], nil
}

// Cribs enriches every crib with a single directory lookup covering all distinct authors.
// No lookup is made when none of the cribs has messages.
func (e *Enricher) Cribs(ctx context.Context, cribs []model.Crib) ([]model.CribView, error) {
	var authorIDs []string
	for _, c := range cribs {
		for _, m := range c.Messages {
			authorIDs = append(authorIDs, m.AuthorID)
		}
	}

	profiles, err := e.lookup(ctx, model.DistinctIDs(authorIDs))
	if err != nil {
		return nil, err
	}

	views := make([]model.CribView, 0, len(cribs))
	for _, c := range cribs {
		views = append(views, view(c, profiles))
	}
	return views, nil
}

// Members resolves memberIDs to {userId, username} pairs in memberIDs order. Ids that do not
// resolve are omitted.
func (e *Enricher) Members(ctx context.Context, memberIDs []string) ([]model.Member, error) {
	profiles, err := e.lookup(ctx, model.DistinctIDs(memberIDs))
	if err != nil {
		return nil, err
	}

	members := make([]model.Member, 0, len(memberIDs))
	for _, id := range model.DistinctIDs(memberIDs) {
		if p, ok := profiles[id]; ok {
			members = append(members, model.Member{UserID: id, Username: p.Username})
		}
	}
	return members, nil
}

func (e *Enricher) lookup(ctx context.Context, ids []string) (map[string]model.UserProfile, error) {
	profiles := make(map[string]model.UserProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	found, err := e.users.FindProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	for _, p := range found {
		profiles[p.ID] = p
	}
	return profiles, nil
}

func view(c model.Crib, profiles map[string]model.UserProfile) model.CribView {
	messages := make([]model.EnrichedMessage, 0, len(c.Messages))
	for _, m := range c.Messages {
		enriched := model.EnrichedMessage{
			AuthorID: m.AuthorID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			Username: UnknownUsername,
		}
		if p, ok := profiles[m.AuthorID]; ok {
			link := p.AvatarLink
			enriched.Username = p.Username
			enriched.AvatarLink = &link
		}
		messages = append(messages, enriched)
	}

	memberIDs := c.MemberIDs
	if memberIDs == nil {
		memberIDs = []string{}
	}
	return model.CribView{
		ID:        c.ID,
		Name:      c.Name,
		Key:       c.Key,
		MemberIDs: memberIDs,
		Messages:  messages,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
