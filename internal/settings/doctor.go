package settings

import (
	"os"
	"path/filepath"
	"strings"

	"storefront-wizard/internal/runstore"
)

type DoctorOptions struct {
	ConfigPath string
	Settings   Settings
}

type DoctorResult struct {
	OK     bool          `json:"ok"`
	Checks []DoctorCheck `json:"checks"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type InitWorkspaceOptions struct {
	ConfigPath string
	RunsDir    string
}

type InitWorkspaceResult struct {
	RunsDir        string       `json:"runs_dir"`
	ConfigPath     string       `json:"config_path"`
	CreatedRunsDir bool         `json:"created_runs_dir"`
	CreatedConfig  bool         `json:"created_config"`
	DoctorResult   DoctorResult `json:"doctor"`
}

func Doctor(opts DoctorOptions) (DoctorResult, error) {
	s := Normalize(opts.Settings)
	configPath := NormalizeConfigPath(opts.ConfigPath)

	checks := make([]DoctorCheck, 0, 4)

	runsOK, runsMessage := ensureWritableDir(s.RunsDir)
	checks = append(checks, DoctorCheck{Name: "directory:runs", OK: runsOK, Message: runsMessage})

	cfgOK, cfgMessage := ensureWritableDir(filepath.Dir(configPath))
	checks = append(checks, DoctorCheck{Name: "directory:config", OK: cfgOK, Message: cfgMessage})

	providerOK := s.Generator.Provider == ProviderAnthropic || s.Generator.Provider == ProviderGemini
	providerMessage := s.Generator.Provider + " (" + s.Generator.Model + ")"
	if !providerOK {
		providerMessage = "unknown provider " + s.Generator.Provider + "; use anthropic or gemini"
	}
	checks = append(checks, DoctorCheck{Name: "generator:provider", OK: providerOK, Message: providerMessage})

	keyOK := s.Generator.APIKey() != ""
	keyMessage := s.Generator.APIKeyEnv + " is set"
	if !keyOK {
		keyMessage = s.Generator.APIKeyEnv + " is not set"
	}
	checks = append(checks, DoctorCheck{Name: "generator:api_key", OK: keyOK, Message: keyMessage})

	ok := true
	for _, c := range checks {
		if !c.OK {
			ok = false
			break
		}
	}
	return DoctorResult{OK: ok, Checks: checks}, nil
}

// InitWorkspace writes a default settings file if none exists and creates the
// runs directory.
func InitWorkspace(opts InitWorkspaceOptions) (InitWorkspaceResult, error) {
	configPath := NormalizeConfigPath(opts.ConfigPath)

	s, err := Load(configPath)
	if err != nil {
		return InitWorkspaceResult{}, err
	}
	if dir := strings.TrimSpace(opts.RunsDir); dir != "" {
		s.RunsDir = dir
	}

	createdConfig := false
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(configPath, s); err != nil {
			return InitWorkspaceResult{}, err
		}
		createdConfig = true
	}

	createdRunsDir := false
	if _, err := os.Stat(s.RunsDir); os.IsNotExist(err) {
		createdRunsDir = true
	}
	if err := runstore.Mkdir(s.RunsDir); err != nil {
		return InitWorkspaceResult{}, err
	}

	doc, err := Doctor(DoctorOptions{ConfigPath: configPath, Settings: s})
	if err != nil {
		return InitWorkspaceResult{}, err
	}
	return InitWorkspaceResult{
		RunsDir:        s.RunsDir,
		ConfigPath:     configPath,
		CreatedRunsDir: createdRunsDir,
		CreatedConfig:  createdConfig,
		DoctorResult:   doc,
	}, nil
}

func ensureWritableDir(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "empty path"
	}
	if err := runstore.Mkdir(path); err != nil {
		return false, err.Error()
	}
	f, err := os.CreateTemp(path, "storefront-wizard-check-*.tmp")
	if err != nil {
		return false, err.Error()
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return true, "writable"
}
