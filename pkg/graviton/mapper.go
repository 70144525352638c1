package graviton

import "strings"

// FamilyClass groups instance families that share the same Graviton lineup
type FamilyClass int

const (
	// FamilyOther is any family with only a 6th generation Graviton equivalent
	FamilyOther FamilyClass = iota

	// FamilyBurstable is the t family, whose only Graviton line is t4g
	FamilyBurstable

	// FamilyMainline covers c and m, available on Graviton2, 3 and 4
	FamilyMainline

	// FamilyMemory covers r, where Graviton4 is not assumed available
	FamilyMemory

	// FamilyMemoryExtreme is the x family, whose only Graviton line is x2g
	FamilyMemoryExtreme
)

func (c FamilyClass) String() string {
	switch c {
	case FamilyBurstable:
		return "burstable"
	case FamilyMainline:
		return "mainline"
	case FamilyMemory:
		return "memory"
	case FamilyMemoryExtreme:
		return "memory-extreme"
	default:
		return "other"
	}
}

// familyPlaceholder is expanded to the source family letter in rule targets
const familyPlaceholder = "{family}"

// familyRule lists the Graviton family names offered for each generation.
// An empty target means that generation does not exist for the class.
type familyRule struct {
	class    FamilyClass
	families []string
	targets  [3]string
}

// familyRules is evaluated in order; the last rule matches every family
var familyRules = []familyRule{
	{class: FamilyBurstable, families: []string{"t"}, targets: [3]string{"t4g", "", ""}},
	{class: FamilyMainline, families: []string{"c", "m"}, targets: [3]string{"{family}6g", "{family}7g", "{family}8g"}},
	{class: FamilyMemory, families: []string{"r"}, targets: [3]string{"r6g", "r7g", ""}},
	{class: FamilyMemoryExtreme, families: []string{"x"}, targets: [3]string{"x2g", "", ""}},
	{class: FamilyOther, targets: [3]string{"{family}6g", "", ""}},
}

func (r familyRule) matches(family string) bool {
	if len(r.families) == 0 {
		return true
	}
	for _, f := range r.families {
		if f == family {
			return true
		}
	}
	return false
}

// Candidates holds the Graviton2, Graviton3 and Graviton4 replacements.
// An empty string means no candidate exists for that generation.
type Candidates struct {
	Graviton2 string
	Graviton3 string
	Graviton4 string
}

// Generations returns the candidates in generation order
func (c Candidates) Generations() [3]string {
	return [3]string{c.Graviton2, c.Graviton3, c.Graviton4}
}

// Classify returns the family class of a parsed instance type
func Classify(t InstanceType) FamilyClass {
	return ruleFor(t.Family).class
}

func ruleFor(family string) familyRule {
	for _, rule := range familyRules {
		if rule.matches(family) {
			return rule
		}
	}
	return familyRules[len(familyRules)-1]
}

// MapCandidates returns the Graviton instance types that can replace instanceType.
// Unparsable, GPU and already-Graviton types have no candidates.
func MapCandidates(instanceType string) Candidates {
	if instanceType == "" {
		return Candidates{}
	}

	parsed, ok := ParseInstanceType(instanceType)
	if !ok {
		return Candidates{}
	}

	if IsGPUInstance(instanceType) || IsGravitonInstance(instanceType) {
		return Candidates{}
	}

	rule := ruleFor(parsed.Family)

	var out [3]string
	for i, target := range rule.targets {
		if target == "" {
			continue
		}
		out[i] = strings.ReplaceAll(target, familyPlaceholder, parsed.Family) + "." + parsed.Size
	}

	return Candidates{Graviton2: out[0], Graviton3: out[1], Graviton4: out[2]}
}
