package model

import "time"

type Document struct {
	Id         string    `gorm:"type:text;primaryKey"`
	Namespace  string    `gorm:"type:text;primaryKey"`
	Filename   string    `gorm:"type:text"`
	SizeBytes  int64     `gorm:"default:0"`
	ChunkCount int       `gorm:"default:0"`
	IngestedAt time.Time `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}
