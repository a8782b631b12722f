package hostnamed

import (
	"fmt"
	"time"
)

// Attribute is one of the machine identity fields served by hostnamed.
type Attribute uint8

const (
	Hostname Attribute = iota
	StaticHostname
	PrettyHostname
	IconName
	Chassis
	Deployment
	Location
)

var attributeNames = [...]string{
	Hostname:       "Hostname",
	StaticHostname: "StaticHostname",
	PrettyHostname: "PrettyHostname",
	IconName:       "IconName",
	Chassis:        "Chassis",
	Deployment:     "Deployment",
	Location:       "Location",
}

// String returns the bus property name of the attribute.
func (a Attribute) String() string {
	if int(a) < len(attributeNames) {
		return attributeNames[a]
	}
	return "unknown"
}

// Valid reports whether a names one of the seven attributes.
func (a Attribute) Valid() bool {
	return int(a) < len(attributeNames)
}

// Group returns the lock group the attribute is mutated under.
func (a Attribute) Group() Group {
	switch a {
	case Hostname:
		return GroupHostname
	case StaticHostname:
		return GroupStaticHostname
	default:
		return GroupMachineInfo
	}
}

// Attributes returns every attribute in declaration order.
func Attributes() []Attribute {
	return []Attribute{Hostname, StaticHostname, PrettyHostname, IconName, Chassis, Deployment, Location}
}

// ParseAttribute maps a bus property name back to its Attribute.
func ParseAttribute(name string) (Attribute, error) {
	for i, n := range attributeNames {
		if n == name {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", name)
}

// Group is a set of attributes that share one mutex. Groups never block
// each other.
type Group uint8

const (
	GroupHostname Group = iota
	GroupStaticHostname
	GroupMachineInfo
)

func (g Group) String() string {
	switch g {
	case GroupHostname:
		return "hostname"
	case GroupStaticHostname:
		return "static-hostname"
	case GroupMachineInfo:
		return "machine-info"
	default:
		return "unknown"
	}
}

// Snapshot is the current value of every identity attribute.
type Snapshot struct {
	Hostname       string
	StaticHostname string
	PrettyHostname string
	IconName       string
	Chassis        string
	Deployment     string
	Location       string
}

// Get returns the value of a single attribute.
func (s Snapshot) Get(a Attribute) string {
	switch a {
	case Hostname:
		return s.Hostname
	case StaticHostname:
		return s.StaticHostname
	case PrettyHostname:
		return s.PrettyHostname
	case IconName:
		return s.IconName
	case Chassis:
		return s.Chassis
	case Deployment:
		return s.Deployment
	case Location:
		return s.Location
	default:
		return ""
	}
}

// Set returns a copy of s with attribute a replaced by value.
func (s Snapshot) Set(a Attribute, value string) Snapshot {
	switch a {
	case Hostname:
		s.Hostname = value
	case StaticHostname:
		s.StaticHostname = value
	case PrettyHostname:
		s.PrettyHostname = value
	case IconName:
		s.IconName = value
	case Chassis:
		s.Chassis = value
	case Deployment:
		s.Deployment = value
	case Location:
		s.Location = value
	}
	return s
}

// Change is a single committed mutation of an attribute.
type Change struct {
	Attribute Attribute
	Value     string
	Sender    string
	At        time.Time
}
