package model

import "fmt"

// Level is the severity of a validation detail.
type Level string

const (
	// LevelInfo details are informational.
	LevelInfo Level = "INFO"

	// LevelWarning details do not make a report invalid.
	LevelWarning Level = "WARNING"

	// LevelSevere details make a report invalid.
	LevelSevere Level = "SEVERE"
)

// Detail is a single validation finding.
type Detail struct {
	Identifier string `yaml:"identifier"`
	Level      Level  `yaml:"level"`
	Message    string `yaml:"message"`
}

func (d Detail) String() string {
	return fmt.Sprintf("%v %v: %v", d.Level, d.Identifier, d.Message)
}

// NewDetail creates a detail with a formatted message.
func NewDetail(identifier string, level Level, format string, args ...interface{}) Detail {
	return Detail{
		Identifier: identifier,
		Level:      level,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Report is the result of a validation.
type Report struct {
	Details []Detail `yaml:"details"`
}

// Add appends details to the report.
func (r *Report) Add(details ...Detail) {
	r.Details = append(r.Details, details...)
}

// Valid reports whether the report contains no severe details.
func (r *Report) Valid() bool {
	if r == nil {
		return true
	}
	for _, d := range r.Details {
		if d.Level == LevelSevere {
			return false
		}
	}
	return true
}

// Detail identifiers.
const (
	DetailModuleName                               = "MODULE_NAME_CONSTRAINT"
	DetailSpecificationIdentifier                  = "SPECIFICATION_IDENTIFIER_CONSTRAINT"
	DetailImplementationIdentifier                 = "IMPLEMENTATION_IDENTIFIER_CONSTRAINT"
	DetailImplementationParent                     = "IMPLEMENTATION_PARENT_CONSTRAINT"
	DetailImplementationReference                  = "IMPLEMENTATION_SPECIFICATION_REFERENCE_CONSTRAINT"
	DetailPropertyValue                            = "IMPLEMENTATION_PROPERTY_VALUE_CONSTRAINT"
	DetailSpecificationMultiplicity                = "SPECIFICATION_MULTIPLICITY_CONSTRAINT"
	DetailSpecificationScope                       = "SPECIFICATION_SCOPE_CONSTRAINT"
	DetailSpecificationClass                       = "SPECIFICATION_CLASS_CONSTRAINT"
	DetailDependencySpecification                  = "IMPLEMENTATION_DEPENDENCY_SPECIFICATION_CONSTRAINT"
	DetailDependencyMultiplicity                   = "IMPLEMENTATION_DEPENDENCY_MULTIPLICITY_CONSTRAINT"
	DetailDependencyCompatibility                  = "IMPLEMENTATION_DEPENDENCY_COMPATIBILITY_CONSTRAINT"
	DetailDependency                               = "IMPLEMENTATION_DEPENDENCY_CONSTRAINT"
	DetailProperty                                 = "IMPLEMENTATION_PROPERTY_CONSTRAINT"
	DetailPropertyType                             = "IMPLEMENTATION_PROPERTY_TYPE_CONSTRAINT"
	DetailMessage                                  = "IMPLEMENTATION_MESSAGE_CONSTRAINT"
	DetailImplementationSpecification              = "IMPLEMENTATION_SPECIFICATION_CONSTRAINT"
	DetailImplementationSpecificationCompatibility = "IMPLEMENTATION_SPECIFICATION_COMPATIBILITY_CONSTRAINT"
	DetailAttributeMissing                         = "CLASS_FILE_ATTRIBUTE_MISSING"
)
