package input

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/aws"
	"go.uber.org/zap"
)

// InstanceLister lists the instances of one region
type InstanceLister interface {
	ListInstances(ctx context.Context) ([]models.InstanceRecord, error)
}

// ListerFactory creates an InstanceLister for a region
type ListerFactory func(ctx context.Context, region string) (InstanceLister, error)

// EC2Source reads the live instance inventory of several regions
type EC2Source struct {
	Regions   []string
	NewLister ListerFactory
	Logger    *zap.Logger
}

// NewEC2Source creates an EC2Source backed by the EC2 API
func NewEC2Source(regions []string, logger *zap.Logger) *EC2Source {
	return &EC2Source{
		Regions: regions,
		NewLister: func(ctx context.Context, region string) (InstanceLister, error) {
			return aws.NewEC2Client(ctx, region)
		},
		Logger: logger,
	}
}

// Records lists instances of every region in parallel. Regions that fail are
// logged and skipped; an error is returned only when nothing was listed.
func (s *EC2Source) Records(ctx context.Context) ([]models.InstanceRecord, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]struct {
		records []models.InstanceRecord
		err     error
	}, len(s.Regions))

	var wg sync.WaitGroup
	for i, region := range s.Regions {
		wg.Add(1)
		go func() {
			defer wg.Done()

			lister, err := s.NewLister(ctx, region)
			if err != nil {
				results[i].err = fmt.Errorf("region %s: %w", region, err)
				return
			}
			results[i].records, results[i].err = lister.ListInstances(ctx)
		}()
	}
	wg.Wait()

	var records []models.InstanceRecord
	var errs []error
	for i, result := range results {
		if result.err != nil {
			logger.Warn("error listing instances", zap.String("region", s.Regions[i]), zap.Error(result.err))
			errs = append(errs, result.err)
			continue
		}
		records = append(records, result.records...)
	}

	if len(records) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("%w: %w", ErrNoRecords, errors.Join(errs...))
		}
		return nil, ErrNoRecords
	}
	return records, nil
}
