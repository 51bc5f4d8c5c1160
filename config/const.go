package config

import "strings"

// AppVersion is the version of the application, stamped at build time.
var AppVersion = "0.1.0"

// AppName is the name of the application.
const AppName = "Realist"

// AppID is the fyne application ID, also used for the preferences store.
const AppID = "io.github.dixieflatline76.realist"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// Log rotation limits for release builds.
const (
	LogMaxSizeMB   = 10
	LogMaxBackups  = 2
	LogMaxAgeDays  = 28
	keyringService = AppName
)

// Defaults for the enhancement backend.
const (
	DefaultModel    = "gemini-2.5-flash-image"
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultAPIAddr  = "127.0.0.1:49453"
)

// Models lists the image models offered in settings.
var Models = []string{DefaultModel, "gemini-3-pro-image-preview"}
