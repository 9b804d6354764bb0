package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/permissions"
)

type User struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Role      permissions.Role `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type Restaurant struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	ManagerID *uuid.UUID `json:"manager_id,omitempty"`
	LogoKey   *string    `json:"logo_key,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Department struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

type Position struct {
	ID           uuid.UUID  `json:"id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	Name         string     `json:"name"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Membership struct {
	UserID       uuid.UUID  `json:"user_id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	PositionID   *uuid.UUID `json:"position_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	JoinedAt     time.Time  `json:"joined_at"`
}

// Employee is a membership row joined with user and position data, the shape
// the employee-listing endpoint returns.
type Employee struct {
	UserID       uuid.UUID  `json:"user_id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PositionID   *uuid.UUID `json:"position_id,omitempty"`
	PositionName *string    `json:"position_name,omitempty"`
	IsActive     bool       `json:"is_active"`
	JoinedAt     time.Time  `json:"joined_at"`
}

type Shift struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	UserID       uuid.UUID `json:"user_id"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	SwapStatusPending  = "PENDING"
	SwapStatusApproved = "APPROVED"
	SwapStatusRejected = "REJECTED"
)

type SwapRequest struct {
	ID           uuid.UUID  `json:"id"`
	ShiftID      uuid.UUID  `json:"shift_id"`
	RequesterID  uuid.UUID  `json:"requester_id"`
	TargetUserID *uuid.UUID `json:"target_user_id,omitempty"`
	Status       string     `json:"status"`
	ResolvedBy   *uuid.UUID `json:"resolved_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

const (
	TaskStatusOpen = "OPEN"
	TaskStatusDone = "DONE"
)

type Task struct {
	ID           uuid.UUID  `json:"id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	AssigneeID   *uuid.UUID `json:"assignee_id,omitempty"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	Status       string     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Timesheet struct {
	ID           uuid.UUID  `json:"id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	UserID       uuid.UUID  `json:"user_id"`
	ClockIn      time.Time  `json:"clock_in"`
	ClockOut     *time.Time `json:"clock_out,omitempty"`
	Note         string     `json:"note"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Announcement struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	SenderID     uuid.UUID `json:"sender_id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

type Notification struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// HoursReportRow aggregates completed timesheet minutes per user for the
// reporting endpoints.
type HoursReportRow struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	TotalMinutes int64     `json:"total_minutes"`
	Entries      int64     `json:"entries"`
}
