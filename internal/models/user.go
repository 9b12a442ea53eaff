package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of staff roles. Permission decisions go through
// Capabilities so that "may this role do X" stays exhaustive and
// compiler-checked instead of string membership tests at call sites.
type Role string

const (
	RoleDirector  Role = "director"
	RoleSecretary Role = "secretary"
	RoleTeacher   Role = "teacher"
	RolePrefect   Role = "prefect"
)

// Capability names one permitted action.
type Capability string

const (
	CapabilityManagePeriods Capability = "manage_periods"
	CapabilityCaptureGrades Capability = "capture_grades"
	CapabilityPromoteCycle  Capability = "promote_cycle"
	CapabilityViewRoster    Capability = "view_roster"
	CapabilityRecordVisits  Capability = "record_visits"
)

// Capabilities returns the full capability set of a role.
func (r Role) Capabilities() []Capability {
	switch r {
	case RoleDirector:
		return []Capability{
			CapabilityManagePeriods,
			CapabilityCaptureGrades,
			CapabilityPromoteCycle,
			CapabilityViewRoster,
			CapabilityRecordVisits,
		}
	case RoleSecretary:
		return []Capability{CapabilityManagePeriods, CapabilityViewRoster}
	case RoleTeacher:
		return []Capability{CapabilityCaptureGrades, CapabilityViewRoster}
	case RolePrefect:
		return []Capability{CapabilityViewRoster, CapabilityRecordVisits}
	default:
		return nil
	}
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	for _, held := range r.Capabilities() {
		if held == c {
			return true
		}
	}
	return false
}

// CarriesAssignments reports whether the role holds subject/group
// assignments that promotion must clear.
func (r Role) CarriesAssignments() bool {
	return r.Can(CapabilityCaptureGrades)
}

// Assignment binds a staff member to a subject and group for one cycle.
type Assignment struct {
	SubjectID string `json:"subject_id"`
	Group     string `json:"group"`
}

// User is a staff account. Credentials and profile survive promotion;
// assignments do not.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	FullName     string       `json:"full_name"`
	Role         Role         `json:"role"`
	Assignments  []Assignment `json:"assignments"`
	Active       bool         `json:"active"`
	CreatedAt    time.Time    `json:"created_at"`
}

// JWTClaims carries the authenticated identity through request handling.
type JWTClaims struct {
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	FullName string `json:"name"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest holds credentials for authenticating a staff member.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo is the public projection of a user.
type UserInfo struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	FullName     string       `json:"full_name"`
	Role         Role         `json:"role"`
	Capabilities []Capability `json:"capabilities"`
}
