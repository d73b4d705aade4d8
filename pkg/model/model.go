// Package model contains the object model of modules, specifications
// and implementations, as read from module documents and as embedded
// into class files.
//
// Module documents use the namespace http://jomc.org/model. The namespace
// is accepted but not required when reading.
package model

import "encoding/xml"

// Namespace of module documents.
const Namespace = "http://jomc.org/model"

// Multiplicity of a specification.
type Multiplicity string

const (
	// MultiplicityOne means a single implementation is used.
	MultiplicityOne Multiplicity = "One"

	// MultiplicityMany means all implementations are used.
	MultiplicityMany Multiplicity = "Many"
)

// Modules is the root of a module document.
type Modules struct {
	XMLName xml.Name  `xml:"modules"`
	Module  []*Module `xml:"module"`
}

// Module groups specifications and implementations.
type Module struct {
	XMLName         xml.Name         `xml:"module"`
	Name            string           `xml:"name,attr"`
	Version         string           `xml:"version,attr,omitempty"`
	Vendor          string           `xml:"vendor,attr,omitempty"`
	Documentation   *Texts           `xml:"documentation,omitempty"`
	Specifications  *Specifications  `xml:"specifications,omitempty"`
	Implementations *Implementations `xml:"implementations,omitempty"`
	Messages        *Messages        `xml:"messages,omitempty"`
	Properties      *Properties      `xml:"properties,omitempty"`
}

// Specifications is a list of specifications and references to specifications.
type Specifications struct {
	XMLName       xml.Name                  `xml:"specifications"`
	Specification []*Specification          `xml:"specification"`
	Reference     []*SpecificationReference `xml:"reference"`
}

// Specification describes an interface and how it is used.
type Specification struct {
	XMLName          xml.Name     `xml:"specification"`
	Identifier       string       `xml:"identifier,attr"`
	Class            string       `xml:"class,attr,omitempty"`
	ClassDeclaration bool         `xml:"classDeclaration,attr,omitempty"`
	Vendor           string       `xml:"vendor,attr,omitempty"`
	Version          string       `xml:"version,attr,omitempty"`
	Multiplicity     Multiplicity `xml:"multiplicity,attr,omitempty"`
	Scope            string       `xml:"scope,attr,omitempty"`
	Documentation    *Texts       `xml:"documentation,omitempty"`
	Properties       *Properties  `xml:"properties,omitempty"`
}

// SpecificationReference references a specification by identifier.
type SpecificationReference struct {
	XMLName    xml.Name `xml:"reference"`
	Identifier string   `xml:"identifier,attr"`
	Version    string   `xml:"version,attr,omitempty"`
}

// Implementations is a list of implementations.
type Implementations struct {
	XMLName        xml.Name          `xml:"implementations"`
	Implementation []*Implementation `xml:"implementation"`
}

// Implementation describes a class implementing specifications.
type Implementation struct {
	XMLName          xml.Name        `xml:"implementation"`
	Identifier       string          `xml:"identifier,attr"`
	Name             string          `xml:"name,attr"`
	Class            string          `xml:"class,attr,omitempty"`
	ClassDeclaration bool            `xml:"classDeclaration,attr,omitempty"`
	Version          string          `xml:"version,attr,omitempty"`
	Vendor           string          `xml:"vendor,attr,omitempty"`
	Abstract         bool            `xml:"abstract,attr,omitempty"`
	Final            bool            `xml:"final,attr,omitempty"`
	Stateless        bool            `xml:"stateless,attr,omitempty"`
	Location         string          `xml:"location,attr,omitempty"`
	Parent           string          `xml:"parent,attr,omitempty"`
	Documentation    *Texts          `xml:"documentation,omitempty"`
	Specifications   *Specifications `xml:"specifications,omitempty"`
	Dependencies     *Dependencies   `xml:"dependencies,omitempty"`
	Properties       *Properties     `xml:"properties,omitempty"`
	Messages         *Messages       `xml:"messages,omitempty"`
}

// Dependencies is a list of dependencies.
type Dependencies struct {
	XMLName    xml.Name      `xml:"dependencies"`
	Dependency []*Dependency `xml:"dependency"`
}

// Dependency is a named dependency of an implementation on a specification.
//
// Multiplicity is filled in when committing to a class file and records
// the multiplicity of the specification the class was built against.
type Dependency struct {
	XMLName            xml.Name     `xml:"dependency"`
	Name               string       `xml:"name,attr"`
	Identifier         string       `xml:"identifier,attr"`
	ImplementationName string       `xml:"implementationName,attr,omitempty"`
	Version            string       `xml:"version,attr,omitempty"`
	Optional           bool         `xml:"optional,attr,omitempty"`
	Bound              bool         `xml:"bound,attr,omitempty"`
	Multiplicity       Multiplicity `xml:"multiplicity,attr,omitempty"`
	Documentation      *Texts       `xml:"documentation,omitempty"`
}

// Properties is a list of properties.
type Properties struct {
	XMLName  xml.Name    `xml:"properties"`
	Property []*Property `xml:"property"`
}

// Property is a named, typed value.
type Property struct {
	XMLName       xml.Name `xml:"property"`
	Name          string   `xml:"name,attr"`
	Type          string   `xml:"type,attr,omitempty"`
	Value         string   `xml:"value,attr,omitempty"`
	Documentation *Texts   `xml:"documentation,omitempty"`
}

// Messages is a list of messages.
type Messages struct {
	XMLName xml.Name   `xml:"messages"`
	Message []*Message `xml:"message"`
}

// Message is a named, localized message template.
type Message struct {
	XMLName       xml.Name `xml:"message"`
	Name          string   `xml:"name,attr"`
	Template      *Texts   `xml:"template,omitempty"`
	Documentation *Texts   `xml:"documentation,omitempty"`
}

// Texts holds a text per language.
type Texts struct {
	DefaultLanguage string  `xml:"defaultLanguage,attr,omitempty"`
	Text            []*Text `xml:"text"`
}

// Text is a text in one language.
type Text struct {
	Language string `xml:"language,attr"`
	Value    string `xml:",chardata"`
}

// Language returns the text for lang, falling back to the default language.
func (t *Texts) Language(lang string) *Text {
	if t == nil {
		return nil
	}
	var def *Text
	for _, text := range t.Text {
		if text.Language == lang {
			return text
		}
		if text.Language == t.DefaultLanguage {
			def = text
		}
	}
	return def
}

// Objects groups the model objects stored in a single class file.
// Absent objects are nil.
type Objects struct {
	Specification  *Specification
	Specifications *Specifications
	Dependencies   *Dependencies
	Properties     *Properties
	Messages       *Messages
}

// Attribute names of the model objects stored in class files.
const (
	SpecificationAttribute  = "org.jomc.model.Specification"
	SpecificationsAttribute = "org.jomc.model.Specifications"
	DependenciesAttribute   = "org.jomc.model.Dependencies"
	PropertiesAttribute     = "org.jomc.model.Properties"
	MessagesAttribute       = "org.jomc.model.Messages"
)

// ByName returns the dependency named name or nil.
func (d *Dependencies) ByName(name string) *Dependency {
	if d == nil {
		return nil
	}
	for _, dep := range d.Dependency {
		if dep.Name == name {
			return dep
		}
	}
	return nil
}

// ByName returns the property named name or nil.
func (p *Properties) ByName(name string) *Property {
	if p == nil {
		return nil
	}
	for _, prop := range p.Property {
		if prop.Name == name {
			return prop
		}
	}
	return nil
}

// ByName returns the message named name or nil.
func (m *Messages) ByName(name string) *Message {
	if m == nil {
		return nil
	}
	for _, msg := range m.Message {
		if msg.Name == name {
			return msg
		}
	}
	return nil
}

// ByIdentifier returns the specification with the given identifier or nil.
func (s *Specifications) ByIdentifier(identifier string) *Specification {
	if s == nil {
		return nil
	}
	for _, spec := range s.Specification {
		if spec.Identifier == identifier {
			return spec
		}
	}
	return nil
}

// ReferenceTo returns the reference to identifier or nil.
func (s *Specifications) ReferenceTo(identifier string) *SpecificationReference {
	if s == nil {
		return nil
	}
	for _, ref := range s.Reference {
		if ref.Identifier == identifier {
			return ref
		}
	}
	return nil
}
