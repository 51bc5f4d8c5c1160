package asset

import (
	"embed"
	"fmt"

	"github.com/dixieflatline76/Realist/util/log"
)

//go:embed text/*
var assets embed.FS

// Asset names shipped with the application.
const (
	PromptsFile = "prompts.yaml"
	FiltersFile = "filters.yaml"
)

// Manager manages the loading of embedded assets.
type Manager struct{}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{}
}

// GetText loads and returns embedded text asset by name.
func (am *Manager) GetText(name string) (string, error) {
	data, err := am.GetRawText(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetRawText loads and returns the raw bytes of an embedded text asset by name.
func (am *Manager) GetRawText(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("asset name is empty")
	}
	data, err := assets.ReadFile("text/" + name)
	if err != nil {
		log.Printf("Error loading text: %v", err)
		return nil, err
	}
	return data, nil
}
