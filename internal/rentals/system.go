// Package rentals proxies rental listing management to the backend.
package rentals

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/Mark0025/peterental/internal/backend"
	"github.com/Mark0025/peterental/pkg/pagination"
)

const basePath = "/api/rentals"

type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Rental], error)
	Find(ctx context.Context, id string) (*Rental, error)
	Create(ctx context.Context, cmd CreateCommand) (*Rental, error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (*Rental, error)
	Delete(ctx context.Context, id string) error
}

type proxy struct {
	client *backend.Client
	logger *slog.Logger
}

func New(client *backend.Client, logger *slog.Logger) System {
	return &proxy{
		client: client,
		logger: logger.With("system", "rentals"),
	}
}

func (p *proxy) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Rental], error) {
	var all []Rental
	if err := p.client.Get(ctx, basePath, nil, &all); err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}

	matched := make([]Rental, 0, len(all))
	for _, r := range all {
		if filters.match(r) {
			matched = append(matched, r)
		}
	}

	result := pagination.Slice(matched, page)
	return &result, nil
}

func (p *proxy) Find(ctx context.Context, id string) (*Rental, error) {
	var r Rental
	if err := p.client.Get(ctx, rentalPath(id), nil, &r); err != nil {
		return nil, fmt.Errorf("find rental %s: %w", id, err)
	}
	return &r, nil
}

func (p *proxy) Create(ctx context.Context, cmd CreateCommand) (*Rental, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var r Rental
	if err := p.client.Post(ctx, basePath, cmd, &r); err != nil {
		return nil, fmt.Errorf("create rental: %w", err)
	}

	p.logger.Info("rental created", "id", r.ID, "address", r.Address)
	return &r, nil
}

func (p *proxy) Update(ctx context.Context, id string, cmd UpdateCommand) (*Rental, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var r Rental
	if err := p.client.Patch(ctx, rentalPath(id), cmd, &r); err != nil {
		return nil, fmt.Errorf("update rental %s: %w", id, err)
	}

	p.logger.Info("rental updated", "id", id)
	return &r, nil
}

func (p *proxy) Delete(ctx context.Context, id string) error {
	if err := p.client.Delete(ctx, rentalPath(id)); err != nil {
		return fmt.Errorf("delete rental %s: %w", id, err)
	}

	p.logger.Info("rental deleted", "id", id)
	return nil
}

func rentalPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}
