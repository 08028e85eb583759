// Package service resolves aliases and records new alias mappings.
package service

import (
	"context"
	"fmt"

	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/KretovDmitry/goalias/internal/executor"
	"github.com/KretovDmitry/goalias/internal/logger"
	"github.com/KretovDmitry/goalias/internal/models"
	"github.com/KretovDmitry/goalias/internal/repository"
	"github.com/KretovDmitry/goalias/internal/shorturl"
	"github.com/KretovDmitry/goalias/internal/storage"
)

// Service runs every operation as a single store transaction
// on the executor. It holds no cache: each Resolve reads the store.
type Service struct {
	exec    *executor.Executor
	aliases *repository.AliasTable
	logger  logger.Logger
}

// New constructs a new service, ensuring that the dependencies are valid values.
func New(exec *executor.Executor, logger logger.Logger) (*Service, error) {
	if exec == nil {
		return nil, fmt.Errorf("%w: executor", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	return &Service{
		exec:    exec,
		aliases: repository.NewAliasTable(),
		logger:  logger,
	}, nil
}

type lookup struct {
	destination string
	found       bool
}

// Resolve returns the destination of the alias. A missing alias is
// reported with found == false and a nil error.
func (s *Service) Resolve(ctx context.Context, alias string) (string, bool, error) {
	res, err := executor.Read(ctx, s.exec, func(txn *storage.ReadTxn) (lookup, error) {
		dest, found, err := s.aliases.Get(txn, alias)
		return lookup{destination: dest, found: found}, err
	})
	if err != nil {
		return "", false, fmt.Errorf("resolve %q: %w", alias, err)
	}
	return res.destination, res.found, nil
}

// Create records the mapping unless the alias is already taken,
// in which case errs.ErrAliasTaken is returned and nothing changes.
func (s *Service) Create(ctx context.Context, alias, destination string) (*models.AliasRecord, error) {
	if err := repository.ValidateRecord(alias, destination); err != nil {
		return nil, err
	}

	rec, err := executor.Write(ctx, s.exec, func(txn *storage.WriteTxn) (*models.AliasRecord, error) {
		existing, found, err := s.aliases.Get(txn, alias)
		if err != nil {
			return nil, err
		}
		if found {
			return nil, fmt.Errorf("%w: %q points to %s", errs.ErrAliasTaken, alias, existing)
		}
		if err = s.aliases.Put(txn, alias, destination); err != nil {
			return nil, err
		}
		return models.NewAliasRecord(alias, destination), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.With(ctx).Debugf("alias %q created for %s", alias, destination)

	return rec, nil
}

// Shorten records the destination under an alias derived from it.
// If the destination is already shortened, the existing record is
// returned together with errs.ErrAliasTaken.
func (s *Service) Shorten(ctx context.Context, destination string) (*models.AliasRecord, error) {
	alias := shorturl.Generate(destination)
	if err := repository.ValidateRecord(alias, destination); err != nil {
		return nil, err
	}

	type outcome struct {
		rec     *models.AliasRecord
		existed bool
	}

	res, err := executor.Write(ctx, s.exec, func(txn *storage.WriteTxn) (outcome, error) {
		existing, found, err := s.aliases.Get(txn, alias)
		if err != nil {
			return outcome{}, err
		}
		if found {
			if existing != destination {
				return outcome{}, fmt.Errorf("%w: generated alias %q points to %s",
					errs.ErrAliasTaken, alias, existing)
			}
			return outcome{rec: models.NewAliasRecord(alias, existing), existed: true}, nil
		}
		if err = s.aliases.Put(txn, alias, destination); err != nil {
			return outcome{}, err
		}
		return outcome{rec: models.NewAliasRecord(alias, destination)}, nil
	})
	if err != nil {
		return nil, err
	}

	if res.existed {
		return res.rec, fmt.Errorf("%w: %s is already shortened", errs.ErrAliasTaken, destination)
	}

	s.logger.With(ctx).Debugf("alias %q generated for %s", alias, destination)

	return res.rec, nil
}

// Ping checks that a read transaction can be run against the store.
func (s *Service) Ping(ctx context.Context) error {
	_, err := executor.Read(ctx, s.exec, func(txn *storage.ReadTxn) (struct{}, error) {
		_, err := txn.Table(storage.Aliases)
		return struct{}{}, err
	})
	return err
}

// Count returns the number of recorded aliases.
func (s *Service) Count(ctx context.Context) (int, error) {
	return executor.Read(ctx, s.exec, func(txn *storage.ReadTxn) (int, error) {
		return s.aliases.Len(txn)
	})
}
