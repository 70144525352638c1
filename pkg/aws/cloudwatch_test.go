package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/gadvisor/internal/models"
)

type fakePutMetricData struct {
	input *cloudwatch.PutMetricDataInput
	err   error
}

func (f *fakePutMetricData) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestSummaryPublisher_Publish(t *testing.T) {
	api := &fakePutMetricData{}
	publisher := NewSummaryPublisherFromAPI(api, "Gadvisor")

	err := publisher.Publish(context.Background(), RunSummary{
		StatusCounts: map[models.Status]int{
			models.StatusConvertible:  3,
			models.StatusSpotExcluded: 1,
		},
		HourlySavings: 0.057,
	})
	require.NoError(t, err)

	assert.Equal(t, "Gadvisor", aws.ToString(api.input.Namespace))
	require.Len(t, api.input.MetricData, len(models.AllStatuses)+1)

	byStatus := make(map[string]float64)
	for _, d := range api.input.MetricData {
		if aws.ToString(d.MetricName) != "InstanceCount" {
			continue
		}
		byStatus[aws.ToString(d.Dimensions[0].Value)] = aws.ToFloat64(d.Value)
	}
	assert.Equal(t, 3.0, byStatus[string(models.StatusConvertible)])
	assert.Equal(t, 1.0, byStatus[string(models.StatusSpotExcluded)])
	assert.Equal(t, 0.0, byStatus[string(models.StatusGPUUnsupported)])

	last := api.input.MetricData[len(api.input.MetricData)-1]
	assert.Equal(t, "EstimatedHourlySavingsUSD", aws.ToString(last.MetricName))
	assert.Equal(t, 0.057, aws.ToFloat64(last.Value))
}

func TestSummaryPublisher_PublishError(t *testing.T) {
	api := &fakePutMetricData{err: errors.New("AccessDenied")}

	err := NewSummaryPublisherFromAPI(api, "Gadvisor").Publish(context.Background(), RunSummary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Gadvisor")
}
