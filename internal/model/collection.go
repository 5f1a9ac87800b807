package model

import "time"

type Collection struct {
	ID        string          `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name      string          `gorm:"column:name;size:1024;index:idx_collections_name" json:"name"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Tags      []CollectionTag `gorm:"foreignKey:CollectionID;references:ID" json:"tags"`
}

func (Collection) TableName() string {
	return "collections"
}

func (c *Collection) TagNames() []string {
	tags := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		tags = append(tags, t.Tag)
	}
	return tags
}

type CollectionTag struct {
	CollectionID string `gorm:"column:collection_id;primaryKey;size:36" json:"collection_id"`
	Tag          string `gorm:"column:tag;primaryKey;size:255" json:"tag"`
}

func (CollectionTag) TableName() string {
	return "collection_tags"
}
