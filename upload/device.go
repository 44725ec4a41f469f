package upload

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeviceInfo identifies the installation in upload metadata. Zero
// fields fall back to runtime values where one exists.
type DeviceInfo struct {
	Model      string
	OS         string
	OSVersion  string
	AppVersion string
	BundleID   string
}

// installID returns the persistent identifier of this installation,
// creating ~/.loggerkit/id on first use. Falls back to an ephemeral id
// when the home directory is unavailable.
func installID() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return uuid.New().String()
	}

	kitDir := filepath.Join(homeDir, ".loggerkit")
	if err := os.MkdirAll(kitDir, 0755); err != nil {
		return uuid.New().String()
	}

	idFile := filepath.Join(kitDir, "id")
	if data, err := os.ReadFile(idFile); err == nil && len(data) > 0 {
		return strings.TrimSpace(string(data))
	}

	newID := uuid.New().String()
	_ = os.WriteFile(idFile, []byte(newID), 0644)
	return newID
}

// deviceFields flattens DeviceInfo into the device[...] multipart fields.
func deviceFields(d DeviceInfo) map[string]string {
	model := d.Model
	if model == "" {
		model = runtime.GOARCH
	}
	osName := d.OS
	if osName == "" {
		osName = runtime.GOOS
	}

	return map[string]string{
		"model":      model,
		"os":         osName,
		"osVersion":  d.OSVersion,
		"appVersion": d.AppVersion,
		"bundleId":   d.BundleID,
		"timestamp":  strconv.FormatInt(time.Now().Unix(), 10),
		"installId":  installID(),
	}
}
