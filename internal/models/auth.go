package models

import "github.com/golang-jwt/jwt/v5"

// GraderRole describes who is grading.
type GraderRole string

const (
	RoleTeacher   GraderRole = "teacher"
	RoleAssistant GraderRole = "assistant"
	RoleAdmin     GraderRole = "admin"
)

// GraderClaims is the JWT payload identifying the human behind manual
// grading requests. The platform's auth service issues these tokens; this
// API only verifies and reads them.
type GraderClaims struct {
	GraderID string     `json:"grader_id"`
	Role     GraderRole `json:"role"`
	FullName string     `json:"full_name"`
	jwt.RegisteredClaims
}
