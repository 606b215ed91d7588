package ec2

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"github.com/pdutra/ec2-chatops/internal/domain"
)

// Client adapts the AWS EC2 API to cloud.InstanceAPI. Region and
// credentials come from the SDK's default chain (env, shared config,
// instance profile).
type Client struct {
	api *ec2.Client
}

func NewClient(ctx context.Context) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Client{api: ec2.NewFromConfig(cfg)}, nil
}

func (c *Client) DescribeByID(ctx context.Context, id string) (*domain.Instance, error) {
	out, err := c.api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrTargetNotFound
		}
		return nil, fmt.Errorf("%w: describe %s: %v", domain.ErrControlPlane, id, err)
	}

	instances := flatten(out)
	if len(instances) == 0 {
		return nil, domain.ErrTargetNotFound
	}
	return instances[0], nil
}

func (c *Client) DescribeByName(ctx context.Context, name string) ([]*domain.Instance, error) {
	out, err := c.api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{{
			Name:   strptr("tag:" + domain.TagName),
			Values: []string{name},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: describe by name %q: %v", domain.ErrControlPlane, name, err)
	}
	return flatten(out), nil
}

func (c *Client) DescribeAll(ctx context.Context) ([]*domain.Instance, error) {
	var all []*domain.Instance
	paginator := ec2.NewDescribeInstancesPaginator(c.api, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: describe all: %v", domain.ErrControlPlane, err)
		}
		all = append(all, flatten(out)...)
	}
	return all, nil
}

func (c *Client) Start(ctx context.Context, id string) error {
	_, err := c.api.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		if isNotFound(err) {
			return domain.ErrTargetNotFound
		}
		return fmt.Errorf("%w: start %s: %v", domain.ErrControlPlane, id, err)
	}
	return nil
}

func (c *Client) Stop(ctx context.Context, id string) error {
	_, err := c.api.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		if isNotFound(err) {
			return domain.ErrTargetNotFound
		}
		return fmt.Errorf("%w: stop %s: %v", domain.ErrControlPlane, id, err)
	}
	return nil
}

func (c *Client) Tag(ctx context.Context, id string, tags map[string]string) error {
	ec2Tags := make([]types.Tag, 0, len(tags))
	for k, v := range tags {
		ec2Tags = append(ec2Tags, types.Tag{Key: strptr(k), Value: strptr(v)})
	}

	_, err := c.api.CreateTags(ctx, &ec2.CreateTagsInput{
		Resources: []string{id},
		Tags:      ec2Tags,
	})
	if err != nil {
		return fmt.Errorf("%w: tag %s: %v", domain.ErrControlPlane, id, err)
	}
	return nil
}

// isNotFound matches the EC2 error codes for an unknown or malformed
// instance ID. Anything else is a real fault.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	return code == "InvalidInstanceID.NotFound" || code == "InvalidInstanceID.Malformed"
}

func flatten(out *ec2.DescribeInstancesOutput) []*domain.Instance {
	var instances []*domain.Instance
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			instances = append(instances, convert(inst))
		}
	}
	return instances
}

func convert(inst types.Instance) *domain.Instance {
	tags := make(map[string]string, len(inst.Tags))
	for _, t := range inst.Tags {
		if t.Key != nil && t.Value != nil {
			tags[*t.Key] = *t.Value
		}
	}

	d := &domain.Instance{
		Tags:       tags,
		LaunchTime: inst.LaunchTime,
	}
	if inst.InstanceId != nil {
		d.ID = *inst.InstanceId
	}
	if inst.State != nil {
		d.State = strings.ToLower(string(inst.State.Name))
	}
	return d
}

func strptr(s string) *string { return &s }
