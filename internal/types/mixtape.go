package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

const DefaultArtist = "DJ Bidex"

type Mixtape struct {
  ID                    uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
  Title                 string              `gorm:"column:title;not null" json:"title"`
  Artist                string              `gorm:"column:artist;not null" json:"artist"`
  Description           string              `gorm:"column:description" json:"description"`
  Genre                 string              `gorm:"column:genre" json:"genre"`
  ReleaseDate           datatypes.Date      `gorm:"column:release_date" json:"releaseDate"`
  AudioURL              string              `gorm:"column:audio_url;not null" json:"audioURL"`
  AudioBucketKey        string              `gorm:"column:audio_bucket_key" json:"-"`
  ThumbnailURL          string              `gorm:"column:thumbnail_url" json:"thumbnailURL"`
  ThumbnailBucketKey    string              `gorm:"column:thumbnail_bucket_key" json:"-"`

  CreatedAt             time.Time           `gorm:"not null;index" json:"createdAt"`
}

func (Mixtape) TableName() string {
  return "mixtapes"
}
