package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/utils"
)

// EC2Client struct for EC2 client
type EC2Client struct {
	client ec2.DescribeInstancesAPIClient
	region string
}

// NewEC2Client creates a new EC2Client
func NewEC2Client(ctx context.Context, region string) (*EC2Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return NewEC2ClientFromAPI(ec2.NewFromConfig(cfg), region), nil
}

// NewEC2ClientFromAPI wraps an existing DescribeInstances client
func NewEC2ClientFromAPI(client ec2.DescribeInstancesAPIClient, region string) *EC2Client {
	return &EC2Client{client: client, region: region}
}

// ListInstances returns every non-terminated instance in the region
func (c *EC2Client) ListInstances(ctx context.Context) ([]models.InstanceRecord, error) {
	input := &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"pending", "running", "stopping", "stopped"},
			},
		},
	}

	instances := []models.InstanceRecord{}

	paginator := ec2.NewDescribeInstancesPaginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances in %s: %w", c.region, err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				instances = append(instances, c.toRecord(instance))
			}
		}
	}

	return instances, nil
}

func (c *EC2Client) toRecord(instance types.Instance) models.InstanceRecord {
	name := utils.GetName(instance.Tags)
	if name == "" {
		name = utils.SafeDeref(instance.InstanceId)
	}

	return models.InstanceRecord{
		Name:         name,
		InstanceType: string(instance.InstanceType),
		Region:       c.region,
		Platform:     utils.SafeDeref(instance.PlatformDetails),
		Lifecycle:    string(instance.InstanceLifecycle),
	}
}
