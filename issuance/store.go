package issuance

import (
	"context"

	"github.com/xraph/launchpad/id"
)

type Store interface {
	Create(ctx context.Context, r *Record) error
	Get(ctx context.Context, recordID id.IssuanceID) (*Record, error)
	GetByAsset(ctx context.Context, assetID string) (*Record, error)
	List(ctx context.Context, opts ListOpts) ([]*Record, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, recordID id.IssuanceID) error
}

type ListOpts struct {
	Controller string
	Limit      int
	Offset     int
}
