// Package models contains the data models for the application.
package models

// AliasRecord is a single alias to destination URL mapping.
type AliasRecord struct {
	// Alias is the short name, unique within the alias table.
	Alias string `json:"alias"`
	// Destination is the redirect target.
	Destination string `json:"url"`
}

// NewAliasRecord creates a new alias record.
func NewAliasRecord(alias, destination string) *AliasRecord {
	return &AliasRecord{
		Alias:       alias,
		Destination: destination,
	}
}
