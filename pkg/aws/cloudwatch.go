package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/younsl/gadvisor/internal/models"
)

// CloudWatchPutMetricAPI is the part of the CloudWatch client the publisher needs
type CloudWatchPutMetricAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// RunSummary is what a run reports to CloudWatch
type RunSummary struct {
	StatusCounts  map[models.Status]int
	HourlySavings float64
}

// SummaryPublisher publishes run summaries as CloudWatch custom metrics
type SummaryPublisher struct {
	client    CloudWatchPutMetricAPI
	namespace string
}

// NewSummaryPublisher creates a SummaryPublisher using the default credential chain
func NewSummaryPublisher(ctx context.Context, region, namespace string) (*SummaryPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryMode(aws.RetryModeStandard),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return NewSummaryPublisherFromAPI(cloudwatch.NewFromConfig(cfg), namespace), nil
}

// NewSummaryPublisherFromAPI wraps an existing CloudWatch client
func NewSummaryPublisherFromAPI(client CloudWatchPutMetricAPI, namespace string) *SummaryPublisher {
	return &SummaryPublisher{client: client, namespace: namespace}
}

// Publish sends one InstanceCount datum per status plus the estimated hourly saving
func (p *SummaryPublisher) Publish(ctx context.Context, summary RunSummary) error {
	data := make([]cwTypes.MetricDatum, 0, len(models.AllStatuses)+1)

	for _, status := range models.AllStatuses {
		data = append(data, cwTypes.MetricDatum{
			MetricName: aws.String("InstanceCount"),
			Dimensions: []cwTypes.Dimension{
				{Name: aws.String("Status"), Value: aws.String(string(status))},
			},
			Value: aws.Float64(float64(summary.StatusCounts[status])),
			Unit:  cwTypes.StandardUnitCount,
		})
	}

	data = append(data, cwTypes.MetricDatum{
		MetricName: aws.String("EstimatedHourlySavingsUSD"),
		Value:      aws.Float64(summary.HourlySavings),
		Unit:       cwTypes.StandardUnitNone,
	})

	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("error publishing metrics to CloudWatch namespace %s: %w", p.namespace, err)
	}
	return nil
}
