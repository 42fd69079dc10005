package models

import (
	"time"

	"github.com/google/uuid"
)

// ToolType is the category a tool belongs to.
type ToolType string

const (
	ToolTypeImage ToolType = "image"
	ToolTypePDF   ToolType = "pdf"
)

// Tool identifies a conversion endpoint for usage accounting.
type Tool struct {
	Name     string
	Type     ToolType
	Endpoint string
}

var (
	ToolResizeImage   = Tool{"Resize Image", ToolTypeImage, "/api/image/resize"}
	ToolCropImage     = Tool{"Crop Image", ToolTypeImage, "/api/image/crop"}
	ToolCompressImage = Tool{"Compress Image", ToolTypeImage, "/api/image/compress"}
	ToolConvertImage  = Tool{"Convert Image", ToolTypeImage, "/api/image/convert"}
	ToolJPGToWord     = Tool{"JPG to Word", ToolTypeImage, "/api/image/jpg-to-word"}
	ToolImageToText   = Tool{"Image Text Converter", ToolTypeImage, "/api/image/image-text-converter"}
	ToolWordCounter   = Tool{"Word Counter", ToolTypeImage, "/api/image/word-counter"}
	ToolPDFToJPG      = Tool{"PDF to JPG", ToolTypePDF, "/api/pdf/pdf-to-jpg"}
	ToolPDFToWord     = Tool{"PDF to Word", ToolTypePDF, "/api/pdf/pdf-to-word"}
	ToolWordToPDF     = Tool{"Word to PDF", ToolTypePDF, "/api/pdf/word-to-pdf"}
	ToolCompressPDF   = Tool{"Compress PDF", ToolTypePDF, "/api/pdf/compress"}
)

// ToolUsage is one append-only usage event.
type ToolUsage struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	ToolName  string    `json:"toolName" db:"tool_name"`
	ToolType  ToolType  `json:"toolType" db:"tool_type"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewToolUsage stamps a usage event for userID.
func NewToolUsage(userID string, tool Tool) ToolUsage {
	return ToolUsage{
		ID:        uuid.NewString(),
		UserID:    userID,
		ToolName:  tool.Name,
		ToolType:  tool.Type,
		Endpoint:  tool.Endpoint,
		CreatedAt: time.Now().UTC(),
	}
}

// ToolCount is one row of a per-tool aggregate.
type ToolCount struct {
	ToolName string `json:"toolName"`
	Count    int    `json:"count"`
}

// UsageStats is the aggregate for a single user.
type UsageStats struct {
	TotalUsage int         `json:"totalUsage"`
	ByTool     []ToolCount `json:"byTool"`
}

// GlobalUsageStats is the aggregate across all users.
type GlobalUsageStats struct {
	TotalUsage  int         `json:"totalUsage"`
	TotalUsers  int         `json:"totalUsers"`
	ActiveUsers int         `json:"activeUsers"`
	ByTool      []ToolCount `json:"byTool"`
}

// UserSummary is one row of the admin user listing.
type UserSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"-"`
	JoinDate   string    `json:"joinDate"`
	TotalUses  int       `json:"totalUses"`
	RecentUses int       `json:"-"`
	Status     string    `json:"status"`
	Plan       string    `json:"plan"`
}

const (
	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
	PlanFree           = "Free"
)

// ActiveWindow is how recent a tool use must be for a user to count as active.
const ActiveWindow = 30 * 24 * time.Hour

// Classify fills the derived fields. RecentUses counts tool uses inside
// ActiveWindow.
func (u *UserSummary) Classify() {
	u.JoinDate = u.CreatedAt.UTC().Format("2006-01-02")
	u.Plan = PlanFree
	u.Status = UserStatusInactive
	if u.RecentUses > 0 {
		u.Status = UserStatusActive
	}
}
