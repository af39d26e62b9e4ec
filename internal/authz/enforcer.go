// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Objects and actions guarded by the policy.
const (
	ObjectRecommendations = "recommendations"
	ObjectStats           = "recommendations:stats"

	ActionRead     = "read"
	ActionGenerate = "generate"
)

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// PolicyPath overrides the embedded policy with a CSV file.
	PolicyPath string

	// DefaultRole is checked when a subject has no role. A value other than
	// "user" inherits the user role.
	DefaultRole string

	// AdminRole, when not "admin", inherits the admin role.
	AdminRole string
}

// Built-in policy roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Enforcer wraps a synced Casbin enforcer.
type Enforcer struct {
	config   EnforcerConfig
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer creates an enforcer with the embedded RBAC model.
func NewEnforcer(cfg EnforcerConfig) (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	aliases := [][2]string{{cfg.AdminRole, RoleAdmin}, {cfg.DefaultRole, RoleUser}}
	for _, a := range aliases {
		if a[0] == "" || a[0] == a[1] {
			continue
		}
		if _, err := enforcer.AddGroupingPolicy(a[0], a[1]); err != nil {
			return nil, fmt.Errorf("failed to alias role %s: %w", a[0], err)
		}
	}

	return &Enforcer{config: cfg, enforcer: enforcer}, nil
}

// loadEmbeddedPolicy parses the policy CSV line by line.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Enforce reports whether role may perform action on object. An empty
// role falls back to the default role.
func (e *Enforcer) Enforce(role, object, action string) (bool, error) {
	if role == "" {
		role = e.config.DefaultRole
	}
	if role == "" {
		return false, nil
	}
	allowed, err := e.enforcer.Enforce(role, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return allowed, nil
}

// Policy returns the loaded permission rules.
func (e *Enforcer) Policy() [][]string {
	//nolint:errcheck // GetPolicy only fails on a nil model
	policies, _ := e.enforcer.GetPolicy()
	return policies
}
