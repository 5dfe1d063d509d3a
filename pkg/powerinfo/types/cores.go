package types

// EfficiencyRole is the named role of a processor efficiency class.
type EfficiencyRole string

const (
	// RolePerformance marks high-performance cores (P-cores).
	RolePerformance EfficiencyRole = "performance"
	// RoleEfficiency marks power-efficient cores (E-cores).
	RoleEfficiency EfficiencyRole = "efficiency"
)

// efficiencyRoles maps OS-reported efficiency class values to roles.
// Only two classes are modeled; any other class value is ignored.
var efficiencyRoles = map[uint8]EfficiencyRole{
	0: RolePerformance,
	1: RoleEfficiency,
}

// RoleForClass returns the role of an efficiency class value.
// ok is false for classes that are not modeled.
func RoleForClass(class uint8) (EfficiencyRole, bool) {
	role, ok := efficiencyRoles[class]
	return role, ok
}

// CoreTypeCounts holds the number of processor cores per efficiency role.
type CoreTypeCounts struct {
	Performance int `json:"performance" yaml:"performance"`
	Efficiency  int `json:"efficiency" yaml:"efficiency"`
}

// Add counts one core of the given role.
func (c *CoreTypeCounts) Add(role EfficiencyRole) {
	switch role {
	case RolePerformance:
		c.Performance++
	case RoleEfficiency:
		c.Efficiency++
	}
}

// HybridDetected reports whether both performance and efficiency cores exist.
func (c CoreTypeCounts) HybridDetected() bool {
	return c.Performance > 0 && c.Efficiency > 0
}
