package domain

import "time"

// TranslationCache rows are keyed by text + target language and overwritten when stale.
type TranslationCache struct {
	Key            string    `gorm:"column:key;size:500;primaryKey" json:"key"`
	TranslatedText string    `gorm:"column:translated_text;type:text;not null" json:"translated_text"`
	SourceLanguage string    `gorm:"column:source_language;size:10;not null" json:"source_language"`
	TargetLanguage string    `gorm:"column:target_language;size:10;not null" json:"target_language"`
	CreatedAt      time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (TranslationCache) TableName() string {
	return "translation_cache"
}
