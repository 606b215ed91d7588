package domain

import (
	"strings"
	"time"
)

// InstanceIDPrefix marks a target as a literal instance ID rather than
// a Name tag.
const InstanceIDPrefix = "i-"

// Audit tag keys written on the instance itself. Single slot, last
// write wins; no history is kept.
const (
	TagName         = "Name"
	TagLastActionBy = "LastActionBy"
	TagStoppedAt    = "StoppedAt"
)

// Instance is the control-plane view of a compute instance, reduced to
// what the chat surface needs.
type Instance struct {
	ID         string
	State      string // e.g. "running", "stopped"
	LaunchTime *time.Time
	Tags       map[string]string
}

// Name returns the Name tag, or "" when the instance is untagged.
func (i *Instance) Name() string {
	return i.Tags[TagName]
}

// DisplayName returns the Name tag, falling back to the raw ID.
func (i *Instance) DisplayName() string {
	if name := i.Name(); name != "" {
		return name
	}
	return i.ID
}

// IsInstanceID reports whether target addresses an instance by literal ID.
func IsInstanceID(target string) bool {
	return strings.HasPrefix(target, InstanceIDPrefix)
}
