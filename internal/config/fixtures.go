package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/helpdesk-request/internal/domain"
)

// Fixtures overrides the simulated collaborators' canned answers.
//
//	user_info:
//	  ticket_number: HD-2024-009999
//	  phone_number: +1 (555) 000-0000
//	  name: Jane Roe
//	  email: jane.roe@company.com
//	latency:
//	  load_ms: 250
//	  submit_ms: 500
type Fixtures struct {
	UserInfo *domain.UserInfo `yaml:"user_info"`
	Latency  struct {
		LoadMS   *int `yaml:"load_ms"`
		SubmitMS *int `yaml:"submit_ms"`
	} `yaml:"latency"`
}

// LoadFixtures reads a fixtures file. An empty path returns empty fixtures.
func LoadFixtures(path string) (*Fixtures, error) {
	fx := &Fixtures{}
	if path == "" {
		return fx, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	if err := yaml.Unmarshal(data, fx); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return fx, nil
}

// Apply copies latency overrides into the form configuration.
func (fx *Fixtures) Apply(cfg *FormConfig) {
	if fx == nil || cfg == nil {
		return
	}
	if fx.Latency.LoadMS != nil {
		cfg.LoadLatencyMS = *fx.Latency.LoadMS
	}
	if fx.Latency.SubmitMS != nil {
		cfg.SubmitLatencyMS = *fx.Latency.SubmitMS
	}
}

// UserInfoOr returns the fixture user info, or fallback when none is set.
func (fx *Fixtures) UserInfoOr(fallback domain.UserInfo) domain.UserInfo {
	if fx == nil || fx.UserInfo == nil {
		return fallback
	}
	return *fx.UserInfo
}
