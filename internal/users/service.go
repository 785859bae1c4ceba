package users

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Available reports whether a store handle exists. Handlers degrade rather
// than fail when it does not.
func (s *Service) Available() bool {
	return s != nil && s.Repo != nil
}

// UpsertFromLogin merges the identity claims into the user document and
// bumps last_login.
func (s *Service) UpsertFromLogin(ctx context.Context, userID string, doc map[string]any) error {
	if !s.Available() {
		return errors.New("users store not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	return s.Repo.UpsertLogin(ctx, userID, doc)
}

// Merge folds arbitrary profile fields into the user document.
func (s *Service) Merge(ctx context.Context, userID string, doc map[string]any) error {
	if !s.Available() {
		return errors.New("users store not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	return s.Repo.Merge(ctx, userID, doc)
}

func (s *Service) GetByID(ctx context.Context, userID string) (Record, error) {
	if !s.Available() {
		return Record{}, errors.New("users store not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Record{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}
