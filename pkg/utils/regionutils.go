package utils

import (
	"context"
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// regionLocations maps AWS region codes to the location names used by the Pricing API.
// Regions missing from this table are not supported.
var regionLocations = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"af-south-1":     "Africa (Cape Town)",
	"ap-east-1":      "Asia Pacific (Hong Kong)",
	"ap-south-1":     "Asia Pacific (Mumbai)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ap-northeast-2": "Asia Pacific (Seoul)",
	"ap-northeast-3": "Asia Pacific (Osaka)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ap-southeast-3": "Asia Pacific (Jakarta)",
	"ca-central-1":   "Canada (Central)",
	"eu-central-1":   "EU (Frankfurt)",
	"eu-west-1":      "EU (Ireland)",
	"eu-west-2":      "EU (London)",
	"eu-west-3":      "EU (Paris)",
	"eu-north-1":     "EU (Stockholm)",
	"eu-south-1":     "EU (Milan)",
	"me-south-1":     "Middle East (Bahrain)",
	"sa-east-1":      "South America (Sao Paulo)",
}

// regionNamePattern matches region codes such as "il-central-1" or "us-gov-west-1"
var regionNamePattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d+$`)

// fallbackRegion is used when no region can be detected
const fallbackRegion = "us-east-1"

// LookupLocation returns the Pricing API location name for a region
func LookupLocation(region string) (string, bool) {
	location, ok := regionLocations[region]
	return location, ok
}

// IsValidRegion checks if a region is in the supported region table
func IsValidRegion(region string) bool {
	_, ok := regionLocations[region]
	return ok
}

// LooksLikeRegion checks the shape of a region code without requiring it to
// be in the supported region table
func LooksLikeRegion(region string) bool {
	return regionNamePattern.MatchString(region)
}

// KnownRegions returns every supported region code in sorted order
func KnownRegions() []string {
	regions := make([]string, 0, len(regionLocations))
	for region := range regionLocations {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// RegionFromAZ derives a region code from an availability zone name
// by dropping the trailing zone letter, e.g. "us-east-1a" -> "us-east-1".
func RegionFromAZ(az string) string {
	if len(az) <= 2 {
		return az
	}
	return az[:len(az)-1]
}

// GetDefaultRegion returns the region from the environment, then from
// instance metadata when running on EC2, then us-east-1.
func GetDefaultRegion(ctx context.Context) string {
	for _, key := range []string{"AWS_REGION", "AWS_DEFAULT_REGION"} {
		if region := os.Getenv(key); region != "" {
			return region
		}
	}

	// IMDS is unreachable off EC2, keep the lookup short
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	client := imds.New(imds.Options{})
	out, err := client.GetRegion(ctx, &imds.GetRegionInput{})
	if err == nil && out.Region != "" {
		return out.Region
	}

	return fallbackRegion
}
