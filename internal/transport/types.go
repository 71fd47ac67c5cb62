// Package transport defines the wire-level contract every backend speaks:
// the uniform result envelope and the typed CRUD operations for lists,
// items, and the session.
package transport

import "fmt"

// ResultCodeSuccess is the envelope result code that signals success.
// Any other value is an application-level rejection.
const ResultCodeSuccess = 0

// FieldError attributes a rejection reason to a single named input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Response is the uniform envelope returned by every remote call.
// Network-level failures surface as Go errors, never as envelopes.
type Response[D any] struct {
	ResultCode   int          `json:"resultCode"`
	Messages     []string     `json:"messages"`
	Data         D            `json:"data"`
	FieldsErrors []FieldError `json:"fieldsErrors,omitempty"`
}

// OK reports whether the envelope signals success.
func (r Response[D]) OK() bool {
	return r.ResultCode == ResultCodeSuccess
}

// ItemStatus is the ordered state-of-completion enumeration.
type ItemStatus int

const (
	StatusNew ItemStatus = iota
	StatusInProgress
	StatusDraft
	StatusCompleted
)

// String returns the display name for the status.
func (s ItemStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusInProgress:
		return "in-progress"
	case StatusDraft:
		return "draft"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseItemStatus resolves a display name back to a status.
func ParseItemStatus(s string) (ItemStatus, error) {
	switch s {
	case "new":
		return StatusNew, nil
	case "in-progress":
		return StatusInProgress, nil
	case "draft":
		return StatusDraft, nil
	case "completed":
		return StatusCompleted, nil
	}
	return 0, fmt.Errorf("unknown status: %s", s)
}

// ItemPriority orders items by urgency, independent of completion status.
type ItemPriority int

const (
	PriorityLow ItemPriority = iota
	PriorityMiddle
	PriorityHigh
	PriorityUrgent
	PriorityLater
)

// String returns the display name for the priority.
func (p ItemPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMiddle:
		return "middle"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	case PriorityLater:
		return "later"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// ParseItemPriority resolves a display name back to a priority.
func ParseItemPriority(s string) (ItemPriority, error) {
	switch s {
	case "low":
		return PriorityLow, nil
	case "middle":
		return PriorityMiddle, nil
	case "high":
		return PriorityHigh, nil
	case "urgent":
		return PriorityUrgent, nil
	case "later":
		return PriorityLater, nil
	}
	return 0, fmt.Errorf("unknown priority: %s", s)
}

// List is a list entity as the server returns it. The identifier is
// server-assigned and opaque.
type List struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	AddedDate string `json:"addedDate"`
	Order     int    `json:"order"`
}

// Item is an item entity as the server returns it. The identifier is unique
// within its owning list only; ListID is never reassigned. Date fields are
// opaque strings and are not parsed client-side.
type Item struct {
	ID          string       `json:"id"`
	ListID      string       `json:"todoListId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      ItemStatus   `json:"status"`
	Priority    ItemPriority `json:"priority"`
	StartDate   string       `json:"startDate"`
	Deadline    string       `json:"deadline"`
	AddedDate   string       `json:"addedDate"`
	Order       int          `json:"order"`
}

// UpdateItemModel is the full field set the update endpoint expects.
// The server's update contract is a full replace, not a patch.
type UpdateItemModel struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      ItemStatus   `json:"status"`
	Priority    ItemPriority `json:"priority"`
	StartDate   string       `json:"startDate"`
	Deadline    string       `json:"deadline"`
}

// ItemPatch carries the fields a caller wants to change. Nil fields are
// retained verbatim from the current entity.
type ItemPatch struct {
	Title       *string
	Description *string
	Status      *ItemStatus
	Priority    *ItemPriority
	StartDate   *string
	Deadline    *string
}

// IsZero reports whether the patch changes nothing.
func (p ItemPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.StartDate == nil && p.Deadline == nil
}

// ApplyTo overlays the patch onto the current item and returns the complete
// field set to send remotely.
func (p ItemPatch) ApplyTo(item Item) UpdateItemModel {
	model := UpdateItemModel{
		Title:       item.Title,
		Description: item.Description,
		Status:      item.Status,
		Priority:    item.Priority,
		StartDate:   item.StartDate,
		Deadline:    item.Deadline,
	}
	if p.Title != nil {
		model.Title = *p.Title
	}
	if p.Description != nil {
		model.Description = *p.Description
	}
	if p.Status != nil {
		model.Status = *p.Status
	}
	if p.Priority != nil {
		model.Priority = *p.Priority
	}
	if p.StartDate != nil {
		model.StartDate = *p.StartDate
	}
	if p.Deadline != nil {
		model.Deadline = *p.Deadline
	}
	return model
}

// User describes the authenticated account returned by the session probe.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Login string `json:"login"`
}

// LoginParams are the credentials for an explicit login.
type LoginParams struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
	Captcha    string `json:"captcha,omitempty"`
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	UserID int    `json:"userId"`
	Token  string `json:"token,omitempty"`
}

// Empty is the envelope payload for operations that return no data.
type Empty struct{}
