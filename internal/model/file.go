package model

import "time"

// Типы активности файла
const (
	ActivityUpload   = "Upload"
	ActivityDownload = "Download"
	ActivityUpdate   = "Update"
	ActivityDelete   = "Delete"
	ActivityView     = "View"
)

// DefaultCategory используется, когда загрузка не указала категорию
const DefaultCategory = "Documents"

type FileRecord struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	FileName         string     `gorm:"size:255;not null;index" json:"file_name"`
	OriginalFileName string     `gorm:"size:255;not null" json:"original_file_name"`
	FilePath         string     `gorm:"size:500;not null" json:"file_path"`
	FileExtension    string     `gorm:"size:100;not null" json:"file_extension"`
	MimeType         string     `gorm:"size:100;not null" json:"mime_type"`
	FileSize         int64      `gorm:"not null" json:"file_size"`
	Description      string     `gorm:"size:1000" json:"description"`
	Tags             string     `gorm:"size:500" json:"tags"`
	Category         string     `gorm:"size:100;not null;index;default:Documents" json:"category"`
	UploadedBy       string     `gorm:"size:100;not null" json:"uploaded_by"`
	UploadedAt       time.Time  `gorm:"not null;index" json:"uploaded_at"`
	ModifiedAt       *time.Time `json:"modified_at,omitempty"`
	ModifiedBy       string     `gorm:"size:100" json:"modified_by,omitempty"`
	IsActive         bool       `gorm:"not null;index;default:true" json:"is_active"`
	IsPublic         bool       `gorm:"not null;default:false" json:"is_public"`
	FileHash         string     `gorm:"size:32" json:"file_hash,omitempty"`
	LastAccessedAt   *time.Time `json:"last_accessed_at,omitempty"`

	Versions   []FileVersion  `gorm:"foreignKey:FileRecordID" json:"-"`
	Activities []FileActivity `gorm:"foreignKey:FileRecordID" json:"-"`
}

// FileVersion - задел под историю версий; загрузка/редактирование её пока не пишут
type FileVersion struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FileRecordID      uint      `gorm:"not null;index" json:"file_record_id"`
	VersionFileName   string    `gorm:"size:255;not null" json:"version_file_name"`
	VersionFilePath   string    `gorm:"size:500;not null" json:"version_file_path"`
	VersionNumber     int       `gorm:"not null;index" json:"version_number"`
	FileSize          int64     `gorm:"not null" json:"file_size"`
	ChangeDescription string    `gorm:"size:500" json:"change_description"`
	CreatedBy         string    `gorm:"size:100;not null" json:"created_by"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	FileHash          string    `gorm:"size:32" json:"file_hash,omitempty"`

	FileRecord *FileRecord `gorm:"foreignKey:FileRecordID" json:"-"`
}

type FileActivity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FileRecordID uint      `gorm:"not null;index" json:"file_record_id"`
	ActivityType string    `gorm:"size:50;not null;index" json:"activity_type"`
	Description  string    `gorm:"size:500" json:"description,omitempty"`
	PerformedBy  string    `gorm:"size:100;not null" json:"performed_by"`
	PerformedAt  time.Time `gorm:"not null;index" json:"performed_at"`
	IPAddress    *string   `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent    *string   `gorm:"size:500" json:"user_agent,omitempty"`

	FileRecord *FileRecord `gorm:"foreignKey:FileRecordID" json:"-"`
}

type FileCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	ColorCode   string    `gorm:"size:7;default:#007bff" json:"color_code"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	CreatedBy   string    `gorm:"size:100" json:"created_by"`
}

// ActivityWithUser - запись журнала с разрешённым отображаемым именем исполнителя
type ActivityWithUser struct {
	FileActivity
	PerformedByName  string `json:"performed_by_name"`
	OriginalFileName string `json:"original_file_name,omitempty"`
}

type ActivitiesPage struct {
	Activities []ActivityWithUser `json:"activities"`
	TotalCount int64              `json:"total_count"`
}

type DashboardStats struct {
	TotalFiles       int64              `json:"total_files"`
	TotalSize        int64              `json:"total_size"`
	TodayUploads     int64              `json:"today_uploads"`
	CategoryStats    map[string]int64   `json:"category_stats"`
	RecentActivities []ActivityWithUser `json:"recent_activities"`
}
