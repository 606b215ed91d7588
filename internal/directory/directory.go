// Package directory resolves a user-supplied target, either a literal
// instance ID or a Name tag, to a concrete instance. Nothing is cached:
// every resolution queries the control plane fresh.
package directory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pdutra/ec2-chatops/internal/cloud"
	"github.com/pdutra/ec2-chatops/internal/domain"
)

type Directory struct {
	cloud  cloud.InstanceAPI
	logger *slog.Logger
}

func New(api cloud.InstanceAPI, logger *slog.Logger) *Directory {
	return &Directory{cloud: api, logger: logger.With("component", "directory")}
}

// Resolve maps target to an instance. Lookup failures of any kind collapse
// to domain.ErrTargetNotFound: the chat caller gets "not found", the cause
// goes to the log. Name matches are case-insensitive and the first match
// wins; ties follow the control plane's enumeration order, which is not
// guaranteed stable across calls.
func (d *Directory) Resolve(ctx context.Context, target string) (*domain.Instance, error) {
	if domain.IsInstanceID(target) {
		inst, err := d.cloud.DescribeByID(ctx, target)
		if err != nil {
			d.logger.Warn("resolve by id failed", "target", target, "error", err)
			return nil, domain.ErrTargetNotFound
		}
		return inst, nil
	}

	instances, err := d.cloud.DescribeByName(ctx, target)
	if err != nil {
		d.logger.Warn("resolve by name failed", "target", target, "error", err)
		return nil, domain.ErrTargetNotFound
	}

	for _, inst := range instances {
		if strings.EqualFold(inst.Name(), target) {
			return inst, nil
		}
	}
	return nil, domain.ErrTargetNotFound
}
