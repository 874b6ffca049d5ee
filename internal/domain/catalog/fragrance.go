package catalog

import (
	"strings"

	"github.com/lcree/backend/internal/domain/shared"
)

// FragranceGender categorizes a fragrance by target audience.
type FragranceGender string

const (
	// FragranceGenderMen marks a men's fragrance
	FragranceGenderMen FragranceGender = "M"
	// FragranceGenderWomen marks a women's fragrance
	FragranceGenderWomen FragranceGender = "W"
	// FragranceGenderUnisex marks a unisex fragrance
	FragranceGenderUnisex FragranceGender = "U"
)

// IsValid checks if the gender value is valid
func (g FragranceGender) IsValid() bool {
	switch g {
	case FragranceGenderMen, FragranceGenderWomen, FragranceGenderUnisex:
		return true
	}
	return false
}

// NoteList holds an ordered list of scent notes, stored as a JSON column.
type NoteList []string

// Fragrance is a catalog entry for one scent. Physical stock of the scent
// lives in inventory.OilBatch rows referencing this entry.
type Fragrance struct {
	shared.BaseEntity
	shared.SoftDeletable
	InternalCode string          `gorm:"size:20;not null;uniqueIndex"` // e.g. M-001, W-002, U-003
	Gender       FragranceGender `gorm:"size:1;not null;index"`
	Brand        string          `gorm:"size:100;not null;index"`
	Name         string          `gorm:"size:100;not null"`
	OfficialName string          `gorm:"size:200;not null"`
	Family       string          `gorm:"size:100"`
	TopNotes     NoteList        `gorm:"serializer:json"`
	HeartNotes   NoteList        `gorm:"serializer:json"`
	BaseNotes    NoteList        `gorm:"serializer:json"`
	Description  string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Fragrance) TableName() string {
	return "fragrances"
}

// NewFragrance creates a new fragrance catalog entry
func NewFragrance(internalCode string, gender FragranceGender, brand, name, officialName string) (*Fragrance, error) {
	if !gender.IsValid() {
		return nil, shared.NewDomainError("INVALID_GENDER", "Gender must be one of M, W, U")
	}
	if internalCode == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Internal code cannot be empty")
	}
	// Internal codes carry their gender prefix (M-001, W-002, ...).
	if !strings.HasPrefix(internalCode, string(gender)) {
		return nil, shared.NewDomainErrorf("INVALID_CODE",
			"Internal code %q must start with gender prefix %q", internalCode, gender)
	}
	if officialName == "" {
		officialName = brand + " - " + name
	}
	return &Fragrance{
		BaseEntity:   shared.NewBaseEntity(),
		InternalCode: internalCode,
		Gender:       gender,
		Brand:        brand,
		Name:         name,
		OfficialName: officialName,
	}, nil
}
