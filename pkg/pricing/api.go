// Package pricing loads EC2 on-demand Linux prices from the AWS Pricing API
// into a region-keyed, read-only price cache.
package pricing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

const (
	// APIRegion hosts the Pricing API endpoint (us-east-1 and ap-south-1 only)
	APIRegion = "us-east-1"

	// ServiceCodeEC2 is the Pricing API service code for EC2 instances
	ServiceCodeEC2 = "AmazonEC2"
)

// NewClient creates a Pricing API client in the Pricing API region
func NewClient(ctx context.Context) (*pricing.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(APIRegion),
		config.WithRetryMode(aws.RetryModeStandard),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config for pricing API: %w", err)
	}

	return pricing.NewFromConfig(cfg), nil
}

// EndpointDescription returns the endpoint shown to the user at start-up
func EndpointDescription() string {
	return fmt.Sprintf("AWS Pricing API in %s region (https://api.pricing.%s.amazonaws.com)", APIRegion, APIRegion)
}

// instanceFilters returns the GetProducts filters for shared-tenancy Linux
// instances in a Pricing API location
func instanceFilters(location string) []types.Filter {
	return []types.Filter{
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("location"),
			Value: aws.String(location),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("operatingSystem"),
			Value: aws.String("Linux"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("tenancy"),
			Value: aws.String("Shared"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("capacitystatus"),
			Value: aws.String("Used"),
		},
	}
}
