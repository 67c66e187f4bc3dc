package services

import (
	"context"

	"haushaltsbuch/internal/aggregate"
	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/normalize"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, username, password string) (*models.User, error)
}

// SubitemInput is a subitem as submitted by a client. Amounts that cannot be
// read as numbers become 0.
type SubitemInput struct {
	ID     normalize.Text   `json:"id"`
	Label  normalize.Text   `json:"label"`
	Amount normalize.Amount `json:"amount"`
}

// LineInput holds the fields of a new line.
type LineInput struct {
	Label      string
	Type       string
	Category   string
	BaseAmount normalize.Amount
	Subitems   []SubitemInput
	IsVariable normalize.Flag
}

// LinePatch holds a partial line update. Only fields marked Present are
// applied; a nil Subitems leaves the subitems alone.
type LinePatch struct {
	Label      normalize.Text
	Type       normalize.Text
	Category   normalize.Text
	BaseAmount normalize.Amount
	Subitems   *[]SubitemInput
	IsVariable normalize.Flag
}

// LineServicer defines the contract for line and subitem business logic.
type LineServicer interface {
	GetUserLines(ctx context.Context, userID string, sort aggregate.SortMode) ([]models.Line, error)
	GetLineByID(ctx context.Context, userID, lineID string) (*models.Line, error)
	CreateLine(ctx context.Context, userID string, in LineInput) (*models.Line, error)
	UpdateLine(ctx context.Context, userID, lineID string, patch LinePatch) (*models.Line, error)
	DeleteLine(ctx context.Context, userID, lineID string) error
	AddSubitem(ctx context.Context, userID, lineID string, in SubitemInput) (*models.Line, error)
	DeleteSubitem(ctx context.Context, userID, lineID, subitemID string) (*models.Line, error)
}

// CategoryServicer defines the contract for category listing and bulk edits.
type CategoryServicer interface {
	GetUserCategories(ctx context.Context, userID string) ([]string, error)
	DeleteCategory(ctx context.Context, userID, name, target string) (int, error)
	RenameCategory(ctx context.Context, userID, oldName, newName string) (int, error)
}

// ReportServicer defines the contract for the derived views over a user's lines.
type ReportServicer interface {
	GetSummary(ctx context.Context, userID string) (*models.Summary, error)
	GetGroups(ctx context.Context, userID string) ([]models.Group, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
