package config

import (
	"errors"
	"log"
	"os/user"

	"fyne.io/fyne/v2"
	"github.com/zalando/go-keyring"
)

// AppUpdateCheckEnabledKey is the key for the app update check enabled preference
const AppUpdateCheckEnabledKey = "app_update_check_enabled"

// ModelKey is the key for the generation model preference
const ModelKey = "gemini_model"

// APIServerEnabledKey is the key for the local API server preference
const APIServerEnabledKey = "api_server_enabled"

// apiKeyKeyringKey is the keyring entry holding the model API key
const apiKeyKeyringKey = keyringService + "_gemini_api_key"

// AppConfig holds the application-wide configuration
type AppConfig struct {
	prefs  fyne.Preferences
	userid string
}

// NewAppConfig creates a new AppConfig instance
func NewAppConfig(p fyne.Preferences) *AppConfig {
	uid := "default"
	if u, err := user.Current(); err == nil {
		uid = u.Uid
	}
	return &AppConfig{prefs: p, userid: uid}
}

// GetUpdateCheckEnabled returns whether the application should check for updates
func (c *AppConfig) GetUpdateCheckEnabled() bool {
	return c.prefs.BoolWithFallback(AppUpdateCheckEnabledKey, true)
}

// SetUpdateCheckEnabled sets whether the application should check for updates
func (c *AppConfig) SetUpdateCheckEnabled(enabled bool) {
	c.prefs.SetBool(AppUpdateCheckEnabledKey, enabled)
}

// GetModel returns the generation model used for enhancement
func (c *AppConfig) GetModel() string {
	return c.prefs.StringWithFallback(ModelKey, DefaultModel)
}

// SetModel sets the generation model used for enhancement
func (c *AppConfig) SetModel(model string) {
	c.prefs.SetString(ModelKey, model)
}

// GetAPIServerEnabled returns whether the local API server should be started
func (c *AppConfig) GetAPIServerEnabled() bool {
	return c.prefs.BoolWithFallback(APIServerEnabledKey, false)
}

// SetAPIServerEnabled sets whether the local API server should be started
func (c *AppConfig) SetAPIServerEnabled(enabled bool) {
	c.prefs.SetBool(APIServerEnabledKey, enabled)
}

// GetAPIKey returns the model API key from the keyring.
func (c *AppConfig) GetAPIKey() string {
	apiKey, err := keyring.Get(apiKeyKeyringKey, c.userid)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Printf("failed to retrieve API key from keyring: %v", err)
		}
		return ""
	}
	return apiKey
}

// SetAPIKey stores the model API key in the keyring. An empty key removes the entry.
func (c *AppConfig) SetAPIKey(apiKey string) error {
	if apiKey == "" {
		err := keyring.Delete(apiKeyKeyringKey, c.userid)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
		return nil
	}
	return keyring.Set(apiKeyKeyringKey, c.userid, apiKey)
}

// ResolveAPIKey prefers a key supplied through the environment over the keyring.
func (c *AppConfig) ResolveAPIKey(env Environment) string {
	if env.Gemini.APIKey != "" {
		return env.Gemini.APIKey
	}
	return c.GetAPIKey()
}

// ResolveModel prefers a model supplied through the environment over the stored preference.
func (c *AppConfig) ResolveModel(env Environment) string {
	if env.Gemini.Model != "" {
		return env.Gemini.Model
	}
	return c.GetModel()
}
