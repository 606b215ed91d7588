// Package cloud defines the instance control-plane boundary. The core
// only ever talks to this interface; the EC2 implementation lives in
// internal/infrastructure/ec2.
package cloud

import (
	"context"

	"github.com/pdutra/ec2-chatops/internal/domain"
)

type InstanceAPI interface {
	// DescribeByID looks up a single instance by literal ID. A missing
	// instance is domain.ErrTargetNotFound, not a fault.
	DescribeByID(ctx context.Context, id string) (*domain.Instance, error)

	// DescribeByName returns all instances carrying the given Name tag
	// value, in the control plane's enumeration order.
	DescribeByName(ctx context.Context, name string) ([]*domain.Instance, error)

	// DescribeAll enumerates every instance visible to the credentials.
	DescribeAll(ctx context.Context) ([]*domain.Instance, error)

	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error

	// Tag overwrites the given tags on the instance. Last write wins.
	Tag(ctx context.Context, id string, tags map[string]string) error
}
