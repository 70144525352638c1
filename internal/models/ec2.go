package models

// InstanceRecord represents one EC2 instance handed to the analyzer
type InstanceRecord struct {
	Name         string
	InstanceType string
	Region       string
	Platform     string // Platform details, e.g. "Linux/UNIX" or "Windows"
	Lifecycle    string // "spot", "scheduled" or empty for on-demand
}

// Status is the migration verdict for a single instance
type Status string

const (
	// StatusOSUnsupported marks Windows instances
	StatusOSUnsupported Status = "OS unsupported"

	// StatusGPUUnsupported marks accelerated instance families
	StatusGPUUnsupported Status = "GPU unsupported"

	// StatusAlreadyMigrated marks instances already running on Graviton
	StatusAlreadyMigrated Status = "already migrated"

	// StatusSpotExcluded marks spot instances
	StatusSpotExcluded Status = "spot excluded"

	// StatusConvertible marks instances with at least one priced Graviton candidate
	StatusConvertible Status = "convertible"

	// StatusNoRegionalCandidate marks instances whose candidates are not sold in the region
	StatusNoRegionalCandidate Status = "no regional candidate available"
)

// AllStatuses lists every status in report order
var AllStatuses = []Status{
	StatusConvertible,
	StatusNoRegionalCandidate,
	StatusAlreadyMigrated,
	StatusSpotExcluded,
	StatusGPUUnsupported,
	StatusOSUnsupported,
}

// Candidate is one Graviton generation offered as a replacement.
// Nil pointers mean the value is not applicable or not priced.
type Candidate struct {
	InstanceType *string  `json:"instanceType" yaml:"instanceType"`
	Price        *float64 `json:"price" yaml:"price"`
	SavingsPct   *float64 `json:"savingsPct" yaml:"savingsPct"`
}

// AnalysisResult holds the migration decision for one instance
type AnalysisResult struct {
	InstanceName  string    `json:"instanceName" yaml:"instanceName"`
	InstanceType  string    `json:"instanceType" yaml:"instanceType"`
	Region        string    `json:"region" yaml:"region"`
	OriginalPrice *float64  `json:"originalPrice" yaml:"originalPrice"`
	Status        Status    `json:"status" yaml:"status"`
	Graviton2     Candidate `json:"graviton2" yaml:"graviton2"`
	Graviton3     Candidate `json:"graviton3" yaml:"graviton3"`
	Graviton4     Candidate `json:"graviton4" yaml:"graviton4"`
}

// Candidates returns the three generations in order
func (r AnalysisResult) Candidates() [3]Candidate {
	return [3]Candidate{r.Graviton2, r.Graviton3, r.Graviton4}
}

// SummaryRow groups convertible instances sharing type and region
type SummaryRow struct {
	InstanceType  string    `json:"instanceType" yaml:"instanceType"`
	Region        string    `json:"region" yaml:"region"`
	Count         int       `json:"count" yaml:"count"`
	OriginalPrice *float64  `json:"originalPrice" yaml:"originalPrice"`
	Graviton2     Candidate `json:"graviton2" yaml:"graviton2"`
	Graviton3     Candidate `json:"graviton3" yaml:"graviton3"`
	Graviton4     Candidate `json:"graviton4" yaml:"graviton4"`
}
