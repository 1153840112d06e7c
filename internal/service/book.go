// Package service contains the application service delivering achievement books.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/achbook/internal/book"
	"github.com/and161185/achbook/internal/cooldown"
	"github.com/and161185/achbook/internal/effects"
	"github.com/and161185/achbook/internal/errs"
	"github.com/and161185/achbook/internal/lang"
	"github.com/and161185/achbook/internal/model"
	"github.com/and161185/achbook/internal/repository"
)

// BookService defines book delivery.
type BookService interface {
	// GiveBook checks the cooldown, compiles the player's achievements and
	// returns the book with its presentation hints.
	GiveBook(ctx context.Context, p model.Player) (model.Delivery, error)
}

type BookServiceImpl struct {
	gate     *cooldown.Gate
	repo     repository.AchievementRepository
	compiler *book.Compiler
	strs     lang.Strings
	fx       *effects.Catalog
	layout   string
	now      func() time.Time
	log      *zap.Logger
}

// NewBookService constructs BookService with required dependencies. layout
// formats the creation date shown in the lore.
func NewBookService(
	gate *cooldown.Gate,
	repo repository.AchievementRepository,
	compiler *book.Compiler,
	strs lang.Strings,
	fx *effects.Catalog,
	layout string,
	log *zap.Logger,
) *BookServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookServiceImpl{
		gate:     gate,
		repo:     repo,
		compiler: compiler,
		strs:     strs,
		fx:       fx,
		layout:   layout,
		now:      time.Now,
		log:      log,
	}
}

// GiveBook delivers a book or reports the cooldown as *errs.CooldownError.
// A failing cooldown store yields errs.ErrUnavailable.
// The grant is recorded before the achievements are read, so a failed read still
// consumes the cooldown.
func (s *BookServiceImpl) GiveBook(ctx context.Context, p model.Player) (model.Delivery, error) {
	if p.ID == uuid.Nil {
		return model.Delivery{}, errors.New("validation: empty player id")
	}
	now := s.now()

	ok, err := s.gate.Authorize(ctx, p, now)
	if err != nil {
		s.log.Error("cooldown check",
			zap.String("player", p.ID.String()),
			zap.Error(err),
		)
		return model.Delivery{}, fmt.Errorf("%w: %w", errs.ErrUnavailable, err)
	}
	if !ok {
		left, err := s.gate.Remaining(ctx, p, now)
		if err != nil {
			s.log.Warn("cooldown remaining", zap.String("player", p.ID.String()), zap.Error(err))
		}
		return model.Delivery{}, &errs.CooldownError{
			Cooldown:  s.gate.Window(),
			Remaining: left,
			Message:   s.strs.Delay(s.gate.Window()),
		}
	}

	fields, err := s.repo.ListForPlayer(ctx, p.ID)
	if err != nil {
		return model.Delivery{}, fmt.Errorf("list achievements: %w", err)
	}

	doc, err := s.compiler.Compile(fields, p.Name, s.strs.BookName, now.Format(s.layout))
	if err != nil {
		s.log.Error("book pages",
			zap.String("player", p.ID.String()),
			zap.Int("fields", len(fields)),
			zap.Error(err),
		)
		return model.Delivery{}, fmt.Errorf("compile book: %w", err)
	}

	return model.Delivery{
		Book:    doc,
		Effects: s.fx.Effects(),
		Message: s.strs.Received(),
	}, nil
}
