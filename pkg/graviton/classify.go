// Package graviton decides whether an EC2 instance type can move to Graviton
// and which Graviton instance types can replace it.
package graviton

import (
	"regexp"
	"strings"
)

var (
	// instanceTypePattern matches "<family letter><generation><suffix>.<size>", e.g. "m5d.xlarge"
	instanceTypePattern = regexp.MustCompile(`^([a-z])(\d+)([a-z]*)\.(.+)$`)

	// gravitonPattern matches types already on Graviton, e.g. "m6g.large"
	gravitonPattern = regexp.MustCompile(`^[a-z]\d+g\.`)
)

// gpuFamilies are the family prefixes of accelerated instance types
var gpuFamilies = map[string]bool{
	"p":   true,
	"g":   true,
	"vt":  true,
	"dl":  true,
	"trn": true,
	"inf": true,
}

// InstanceType is a parsed EC2 instance type name
type InstanceType struct {
	Family string

	// Generation is kept as the digit string; it is never used as a number
	Generation string
	Suffix     string
	Size       string
}

// ParseInstanceType splits an instance type such as "r5dn.2xlarge" into its parts.
// It reports false for names that do not follow the single-letter family format.
func ParseInstanceType(s string) (InstanceType, bool) {
	m := instanceTypePattern.FindStringSubmatch(s)
	if m == nil {
		return InstanceType{}, false
	}

	return InstanceType{
		Family:     m[1],
		Generation: m[2],
		Suffix:     m[3],
		Size:       m[4],
	}, true
}

// familyPrefix returns the letters before the first digit, e.g. "inf" for "inf2.xlarge"
func familyPrefix(instanceType string) string {
	name, _, _ := strings.Cut(instanceType, ".")
	if i := strings.IndexAny(name, "0123456789"); i >= 0 {
		return name[:i]
	}
	return name
}

// IsGPUInstance checks if the instance type belongs to an accelerated family
func IsGPUInstance(instanceType string) bool {
	if instanceType == "" {
		return false
	}
	return gpuFamilies[familyPrefix(instanceType)]
}

// IsGravitonInstance checks if the instance type already runs on Graviton
func IsGravitonInstance(instanceType string) bool {
	if instanceType == "" {
		return false
	}
	return gravitonPattern.MatchString(instanceType)
}
