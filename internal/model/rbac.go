package model

import "strings"

// Role is the identity a session acts under. It is fixed for the lifetime of
// the session.
type Role string

const (
	RoleHospitalAdmin Role = "Hospital Admin"
	RoleDoctor        Role = "Doctor"
	RoleNurse         Role = "Nurse"
	RoleReceptionist  Role = "Receptionist"
	RolePatient       Role = "Patient"
)

// Roles lists every role in login-screen order.
var Roles = []Role{
	RoleHospitalAdmin,
	RoleDoctor,
	RoleNurse,
	RoleReceptionist,
	RolePatient,
}

// ParseRole matches s against the known roles, ignoring case and separators
// ("hospital-admin", "HospitalAdmin" and "Hospital Admin" are equivalent).
func ParseRole(s string) (Role, bool) {
	norm := normalizeRole(s)
	for _, r := range Roles {
		if normalizeRole(string(r)) == norm {
			return r, true
		}
	}
	return Role(s), false
}

// DefaultDisplayName is the name used for sessions opened without one.
func (r Role) DefaultDisplayName() string {
	return string(r) + " User"
}

func normalizeRole(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(s))
}

// Capability is an action gated by the permission matrix.
type Capability string

const (
	CapabilityView      Capability = "view"
	CapabilityEdit      Capability = "edit"
	CapabilityCreate    Capability = "create"
	CapabilityDelete    Capability = "delete"
	CapabilityApprove   Capability = "approve"
	CapabilityViewAudit Capability = "view_audit"
)

// ParseCapability accepts the canonical names plus "view_logs" for view_audit.
func ParseCapability(s string) (Capability, bool) {
	switch c := Capability(strings.ToLower(strings.TrimSpace(s))); c {
	case CapabilityView, CapabilityEdit, CapabilityCreate, CapabilityDelete, CapabilityApprove, CapabilityViewAudit:
		return c, true
	case "view_logs":
		return CapabilityViewAudit, true
	default:
		return c, false
	}
}
