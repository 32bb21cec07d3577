package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
	"go.uber.org/zap"
)

// CatalogService manages offered and wanted skill listings.
type CatalogService struct {
	store            repository.Store
	logger           *zap.Logger
	approvalRequired bool
}

// NewCatalogService builds the catalog. With approvalRequired set, new
// offered skills stay out of browse results until an admin approves them.
func NewCatalogService(store repository.Store, approvalRequired bool, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger, approvalRequired: approvalRequired}
}

func (s *CatalogService) AddOffered(ctx context.Context, actorID uuid.UUID, name, description string) (*models.OfferedSkill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ErrSkillNameRequired
	}

	sk := &models.OfferedSkill{
		OwnerID:     actorID,
		Name:        name,
		Description: strings.TrimSpace(description),
		IsApproved:  !s.approvalRequired,
	}
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.Skills().CreateOffered(ctx, sk)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("offered skill added",
		zap.Int64("skill_id", sk.ID),
		zap.String("owner_id", actorID.String()),
		zap.Bool("approved", sk.IsApproved),
	)
	return sk, nil
}

func (s *CatalogService) AddWanted(ctx context.Context, actorID uuid.UUID, name, description string) (*models.WantedSkill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ErrSkillNameRequired
	}

	sk := &models.WantedSkill{
		OwnerID:     actorID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.Skills().CreateWanted(ctx, sk)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("wanted skill added", zap.Int64("skill_id", sk.ID), zap.String("owner_id", actorID.String()))
	return sk, nil
}

// Browse lists approved skills whose owners are public and not banned.
func (s *CatalogService) Browse(ctx context.Context, search string) ([]models.BrowseEntry, error) {
	var entries []models.BrowseEntry
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		entries, err = tx.Skills().ListBrowse(ctx, strings.TrimSpace(search))
		return err
	})
	return entries, err
}

// MySkills is the owner's own view, unapproved skills included.
type MySkills struct {
	Offered []models.OfferedSkill `json:"offered"`
	Wanted  []models.WantedSkill  `json:"wanted"`
}

func (s *CatalogService) ListMine(ctx context.Context, actorID uuid.UUID) (*MySkills, error) {
	out := &MySkills{}
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		if out.Offered, err = tx.Skills().ListOfferedByOwner(ctx, actorID); err != nil {
			return err
		}
		out.Wanted, err = tx.Skills().ListWantedByOwner(ctx, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CatalogService) GetOffered(ctx context.Context, id int64) (*models.OfferedSkill, error) {
	var sk *models.OfferedSkill
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		sk, err = tx.Skills().GetOffered(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if sk == nil {
		return nil, apperr.ErrSkillNotFound
	}
	return sk, nil
}
