package tracking

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danieljhkim/studiofold/internal/config"
)

// Environment variables that supply credentials.
const (
	EnvURL        = "FLOW_URL"
	EnvScriptName = "FLOW_SCRIPT_NAME"
	EnvScriptKey  = "FLOW_SCRIPT_KEY"
	EnvProjectID  = "FLOW_PROJECT_ID"
)

// ErrNoCredentials is returned when neither the environment nor the settings
// file provide complete credentials.
var ErrNoCredentials = errors.New("missing tracking credentials: set FLOW_URL, FLOW_SCRIPT_NAME, FLOW_SCRIPT_KEY and FLOW_PROJECT_ID or the [tracking] settings table")

// Credentials identify a script user and the project to read.
type Credentials struct {
	URL        string
	ScriptName string
	ScriptKey  string
	ProjectID  int
}

func (c Credentials) complete() bool {
	return c.URL != "" && c.ScriptName != "" && c.ScriptKey != "" && c.ProjectID > 0
}

// LoadCredentials reads credentials from the environment when all four
// variables are set, and from settings otherwise.
func LoadCredentials(settings config.TrackingSettings) (Credentials, error) {
	url := strings.TrimSpace(os.Getenv(EnvURL))
	name := strings.TrimSpace(os.Getenv(EnvScriptName))
	key := strings.TrimSpace(os.Getenv(EnvScriptKey))
	pid := strings.TrimSpace(os.Getenv(EnvProjectID))

	if url != "" && name != "" && key != "" && pid != "" {
		id, err := strconv.Atoi(pid)
		if err != nil || id <= 0 {
			return Credentials{}, fmt.Errorf("invalid %s %q: must be a positive integer", EnvProjectID, pid)
		}
		return Credentials{URL: url, ScriptName: name, ScriptKey: key, ProjectID: id}, nil
	}

	creds := Credentials{
		URL:        strings.TrimSpace(settings.URL),
		ScriptName: strings.TrimSpace(settings.ScriptName),
		ScriptKey:  strings.TrimSpace(settings.ScriptKey),
		ProjectID:  settings.ProjectID,
	}
	if !creds.complete() {
		return Credentials{}, ErrNoCredentials
	}
	return creds, nil
}
