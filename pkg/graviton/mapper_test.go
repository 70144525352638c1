package graviton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCandidates(t *testing.T) {
	tests := []struct {
		name         string
		instanceType string
		expected     Candidates
	}{
		{
			name:         "mainline m family gets three generations",
			instanceType: "m5.large",
			expected:     Candidates{"m6g.large", "m7g.large", "m8g.large"},
		},
		{
			name:         "mainline c family keeps size",
			instanceType: "c5n.4xlarge",
			expected:     Candidates{"c6g.4xlarge", "c7g.4xlarge", "c8g.4xlarge"},
		},
		{
			name:         "r family has no Graviton4",
			instanceType: "r5.large",
			expected:     Candidates{"r6g.large", "r7g.large", ""},
		},
		{
			name:         "oversized generation number still maps",
			instanceType: "m99999999999999999999.large",
			expected:     Candidates{"m6g.large", "m7g.large", "m8g.large"},
		},
		{
			name:         "burstable family only maps to t4g",
			instanceType: "t3.micro",
			expected:     Candidates{"t4g.micro", "", ""},
		},
		{
			name:         "x family only maps to x2g",
			instanceType: "x1.32xlarge",
			expected:     Candidates{"x2g.32xlarge", "", ""},
		},
		{
			name:         "other families get a sixth generation candidate",
			instanceType: "i3.large",
			expected:     Candidates{"i6g.large", "", ""},
		},
		{
			name:         "gpu instance has no candidates",
			instanceType: "g4dn.xlarge",
			expected:     Candidates{},
		},
		{
			name:         "graviton instance has no candidates",
			instanceType: "m6g.large",
			expected:     Candidates{},
		},
		{
			name:         "unparsable type has no candidates",
			instanceType: "mac2-m2pro.metal",
			expected:     Candidates{},
		},
		{
			name:         "empty type has no candidates",
			instanceType: "",
			expected:     Candidates{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapCandidates(tt.instanceType))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]FamilyClass{
		"t3.micro":    FamilyBurstable,
		"m5.large":    FamilyMainline,
		"c5.large":    FamilyMainline,
		"r5.large":    FamilyMemory,
		"x1e.xlarge":  FamilyMemoryExtreme,
		"i3en.large":  FamilyOther,
		"z1d.2xlarge": FamilyOther,
	}

	for instanceType, expected := range tests {
		parsed, ok := ParseInstanceType(instanceType)
		assert.True(t, ok, instanceType)
		assert.Equal(t, expected, Classify(parsed), instanceType)
	}
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, [3]string{"a", "b", ""}, Candidates{"a", "b", ""}.Generations())
}
