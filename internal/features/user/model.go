package user

import (
	"fmt"
	"time"
)

// Field names as stored in documents; Postgres maps them to snake_case columns.
const (
	FieldUserID      = "userId"
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldRole        = "role"
	FieldStatus      = "status"
	FieldDepartment  = "department"
	FieldCreatedAt   = "createdAt"
	FieldLastLoginAt = "lastLoginAt"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	FirstNames  = []string{"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry", "Ivy", "Jack", "Kate", "Liam", "Mia", "Noah", "Olivia", "Paul", "Quinn", "Ruby", "Sam", "Tina"}
	LastNames   = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin"}
	Departments = []string{"Engineering", "Marketing", "Sales", "HR", "Finance", "Operations", "Support", "Legal", "Design", "Product"}
	Roles       = []string{"Manager", "Developer", "Analyst", "Representative", "Coordinator", "Specialist", "Lead", "Director", "Associate", "Intern"}
	Statuses    = []string{StatusActive, StatusInactive}
)

type User struct {
	UserID      string    `bson:"userId" json:"userId"`
	Username    string    `bson:"username" json:"username"`
	Email       string    `bson:"email" json:"email"`
	FirstName   string    `bson:"firstName" json:"firstName"`
	LastName    string    `bson:"lastName" json:"lastName"`
	Role        string    `bson:"role" json:"role"`
	Status      string    `bson:"status" json:"status"` // active, inactive
	Department  string    `bson:"department" json:"department"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	LastLoginAt time.Time `bson:"lastLoginAt" json:"lastLoginAt"`
}

// Filter narrows Count and Sample. The zero value matches every record.
type Filter struct {
	Status string
}

// Fields is a partial update keyed by Field* names.
type Fields map[string]any

// StoreError wraps any failure reported by a store backend.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
