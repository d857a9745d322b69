package db

import (
	"context"

	"inmoscan/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AuctionStore is the table-scoped view of subastas the pipeline and the
// query endpoint work against.
type AuctionStore interface {
	All(ctx context.Context) ([]models.Auction, error)
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, auction *models.Auction) error
}

type AuctionRepository struct {
	DB *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) *AuctionRepository {
	return &AuctionRepository{DB: db}
}

// All returns every row, unordered and unpaginated.
func (r *AuctionRepository) All(ctx context.Context) ([]models.Auction, error) {
	auctions, err := gorm.G[models.Auction](r.DB).Find(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "select subastas")
	}
	return auctions, nil
}

// DeleteAll empties the table. Deletes require a condition, so it filters
// on an id no row has.
func (r *AuctionRepository) DeleteAll(ctx context.Context) error {
	if _, err := gorm.G[models.Auction](r.DB).Where("id <> ?", 0).Delete(ctx); err != nil {
		return errors.Wrap(err, "delete subastas")
	}
	return nil
}

func (r *AuctionRepository) Insert(ctx context.Context, auction *models.Auction) error {
	if err := gorm.G[models.Auction](r.DB).Create(ctx, auction); err != nil {
		return errors.Wrapf(err, "insert subasta %q", auction.Referencia)
	}
	return nil
}
