package model

import "time"

// File is an authoritative catalog record. Rows start with IsReady false and
// flip to true once the object-storage upload is confirmed; the lifecycle
// sweep removes rows that never made it there.
type File struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name       string    `gorm:"column:name;size:1024" json:"name"`
	Size       int64     `gorm:"column:size" json:"size"`
	MimeType   string    `gorm:"column:mime_type;size:255" json:"mime_type"`
	IsReady    bool      `gorm:"column:is_ready;index:idx_files_is_ready" json:"is_ready"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime;index:idx_files_uploaded_at" json:"uploaded_at"`
	Tags       []FileTag `gorm:"foreignKey:FileID;references:ID" json:"tags"`
}

func (File) TableName() string {
	return "files"
}

// TagNames flattens the tag rows into the form the search index stores.
func (f *File) TagNames() []string {
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		tags = append(tags, t.Tag)
	}
	return tags
}

type FileTag struct {
	FileID string `gorm:"column:file_id;primaryKey;size:36" json:"file_id"`
	Tag    string `gorm:"column:tag;primaryKey;size:255" json:"tag"`
}

func (FileTag) TableName() string {
	return "file_tags"
}
