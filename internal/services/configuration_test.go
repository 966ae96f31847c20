package services

import (
	"fmt"
	"testing"

	"netvault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(t *testing.T, svc *ConfigurationService, userID uint, name string) *models.Configuration {
	t.Helper()

	cfg, err := svc.Create(userID, CreateConfigurationInput{
		Name:       name,
		ConfigType: "interface",
		Data:       map[string]any{"name": "wan1"},
	}, testMeta)
	require.NoError(t, err)
	return cfg
}

func TestConfigurationCreate(t *testing.T) {
	t.Run("writes record and initial version atomically", func(t *testing.T) {
		svc, db := newConfigService(t)
		user := createTestUser(t, db, "alice")

		cfg, err := svc.Create(user.ID, CreateConfigurationInput{
			Name:        "branch firewall",
			ConfigType:  "firewall",
			Description: "outbound rules",
			Data:        map[string]any{"action": "accept"},
			Tags:        "prod, branch",
		}, testMeta)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cfg.VersionCount)
		assert.Equal(t, models.TagList{"prod", "branch"}, cfg.Tags)

		var version models.ConfigurationVersion
		require.NoError(t, db.Where("config_id = ?", cfg.ID).First(&version).Error)
		assert.Equal(t, 1, version.Version)
		assert.Equal(t, "Initial version", version.ChangeDescription)
		assert.Equal(t, user.ID, version.CreatedBy)

		var entry models.AuditLog
		require.NoError(t, db.Where("action = ?", "create").First(&entry).Error)
		assert.Equal(t, "configuration", entry.ResourceType)
		assert.Equal(t, "branch firewall", entry.Details["name"])
	})

	t.Run("invalid type and tags reported together", func(t *testing.T) {
		svc, db := newConfigService(t)
		user := createTestUser(t, db, "alice")

		_, err := svc.Create(user.ID, CreateConfigurationInput{
			Name:       "bad",
			ConfigType: "IPSEC",
			Data:       map[string]any{},
			Tags:       42,
		}, testMeta)

		var fieldErrors ValidationErrors
		require.ErrorAs(t, err, &fieldErrors)
		assert.Contains(t, fieldErrors, "config_type")
		assert.Contains(t, fieldErrors, "tags")
	})
}

func TestConfigurationGet(t *testing.T) {
	svc, db := newConfigService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	cfg := createTestConfig(t, svc, alice.ID, "alice config")

	t.Run("owner reads full record", func(t *testing.T) {
		got, err := svc.Get(cfg.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice config", got.Name)
		assert.Equal(t, int64(1), got.VersionCount)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := svc.Get(cfg.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("missing id is not-found even for non-owner", func(t *testing.T) {
		_, err := svc.Get(9999, bob.ID)
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}

func TestConfigurationUpdate(t *testing.T) {
	strptr := func(s string) *string { return &s }

	t.Run("data change appends a version", func(t *testing.T) {
		svc, db := newConfigService(t)
		user := createTestUser(t, db, "alice")
		cfg := createTestConfig(t, svc, user.ID, "wan uplink")

		updated, err := svc.Update(cfg.ID, user.ID, UpdateConfigurationInput{
			Data:              map[string]any{"name": "wan2"},
			ChangeDescription: "switched uplink port",
		}, testMeta)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.VersionCount)
		assert.Equal(t, "wan2", updated.Data["name"])

		versions, err := svc.ListVersions(cfg.ID, user.ID)
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, 2, versions[0].Version)
		assert.Equal(t, "switched uplink port", versions[0].ChangeDescription)
	})

	t.Run("metadata-only change does not version", func(t *testing.T) {
		svc, db := newConfigService(t)
		user := createTestUser(t, db, "alice")
		cfg := createTestConfig(t, svc, user.ID, "old name")

		updated, err := svc.Update(cfg.ID, user.ID, UpdateConfigurationInput{
			Name:        strptr("new name"),
			Description: strptr("renamed"),
		}, testMeta)
		require.NoError(t, err)
		assert.Equal(t, "new name", updated.Name)
		assert.Equal(t, int64(1), updated.VersionCount)

		// data payload is untouched by a metadata patch
		assert.Equal(t, "wan1", updated.Data["name"])
	})

	t.Run("default change description", func(t *testing.T) {
		svc, db := newConfigService(t)
		user := createTestUser(t, db, "alice")
		cfg := createTestConfig(t, svc, user.ID, "c")

		_, err := svc.Update(cfg.ID, user.ID, UpdateConfigurationInput{
			Data: map[string]any{"k": "v"},
		}, testMeta)
		require.NoError(t, err)

		version, err := svc.GetVersion(cfg.ID, 2, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Configuration updated", version.ChangeDescription)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		svc, db := newConfigService(t)
		alice := createTestUser(t, db, "alice")
		bob := createTestUser(t, db, "bob")
		cfg := createTestConfig(t, svc, alice.ID, "c")

		_, err := svc.Update(cfg.ID, bob.ID, UpdateConfigurationInput{Name: strptr("stolen")}, testMeta)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("invalid tags rejected", func(t *testing.T) {
		svc, db := newConfigService(t)
		user := createTestUser(t, db, "alice")
		cfg := createTestConfig(t, svc, user.ID, "c")

		_, err := svc.Update(cfg.ID, user.ID, UpdateConfigurationInput{Tags: 42}, testMeta)
		var fieldErrors ValidationErrors
		require.ErrorAs(t, err, &fieldErrors)
		assert.Contains(t, fieldErrors, "tags")
	})
}

func TestConfigurationDelete(t *testing.T) {
	svc, db := newConfigService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	cfg := createTestConfig(t, svc, alice.ID, "doomed")

	_, err := svc.Update(cfg.ID, alice.ID, UpdateConfigurationInput{Data: map[string]any{"v": "2"}}, testMeta)
	require.NoError(t, err)

	err = svc.Delete(cfg.ID, bob.ID, testMeta)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.Delete(cfg.ID, alice.ID, testMeta))

	_, err = svc.Get(cfg.ID, alice.ID)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	var count int64
	require.NoError(t, db.Model(&models.ConfigurationVersion{}).Where("config_id = ?", cfg.ID).Count(&count).Error)
	assert.Zero(t, count)

	var entry models.AuditLog
	require.NoError(t, db.Where("action = ?", "delete").First(&entry).Error)
	assert.Equal(t, "doomed", entry.Details["name"])
}

func TestConfigurationList(t *testing.T) {
	svc, db := newConfigService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	mk := func(userID uint, name, configType string, tags any, isTemplate bool) {
		_, err := svc.Create(userID, CreateConfigurationInput{
			Name:       name,
			ConfigType: configType,
			Data:       map[string]any{},
			Tags:       tags,
			IsTemplate: isTemplate,
		}, testMeta)
		require.NoError(t, err)
	}

	mk(alice.ID, "Branch Firewall", "firewall", "prod", false)
	mk(alice.ID, "HQ VPN", "ipsec", "prod,vpn", false)
	mk(alice.ID, "Lab DNS", "dns", "lab", true)
	mk(bob.ID, "Bob Firewall", "firewall", nil, false)

	t.Run("scoped to owner", func(t *testing.T) {
		configs, total, err := svc.List(alice.ID, ListFilters{}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, configs, 3)
	})

	t.Run("filter by type", func(t *testing.T) {
		configs, total, err := svc.List(alice.ID, ListFilters{ConfigType: "ipsec"}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "HQ VPN", configs[0].Name)
	})

	t.Run("filter by template flag", func(t *testing.T) {
		isTemplate := true
		_, total, err := svc.List(alice.ID, ListFilters{IsTemplate: &isTemplate}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("case-insensitive search over name and description", func(t *testing.T) {
		configs, total, err := svc.List(alice.ID, ListFilters{Search: "firewall"}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Branch Firewall", configs[0].Name)
	})

	t.Run("any-of tag filter", func(t *testing.T) {
		_, total, err := svc.List(alice.ID, ListFilters{Tags: []string{"vpn", "lab"}}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("pagination", func(t *testing.T) {
		configs, total, err := svc.List(alice.ID, ListFilters{}, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, configs, 1)
	})
}

func TestVersionHistory(t *testing.T) {
	svc, db := newConfigService(t)
	user := createTestUser(t, db, "alice")
	cfg := createTestConfig(t, svc, user.ID, "evolving")

	for i := 2; i <= 4; i++ {
		_, err := svc.Update(cfg.ID, user.ID, UpdateConfigurationInput{
			Data: map[string]any{"rev": fmt.Sprintf("%d", i)},
		}, testMeta)
		require.NoError(t, err)
	}

	t.Run("newest first, contiguous from 1", func(t *testing.T) {
		versions, err := svc.ListVersions(cfg.ID, user.ID)
		require.NoError(t, err)
		require.Len(t, versions, 4)
		for i, v := range versions {
			assert.Equal(t, 4-i, v.Version)
		}
	})

	t.Run("single version snapshot", func(t *testing.T) {
		version, err := svc.GetVersion(cfg.ID, 3, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "3", version.Data["rev"])
	})

	t.Run("missing version", func(t *testing.T) {
		_, err := svc.GetVersion(cfg.ID, 99, user.ID)
		assert.ErrorIs(t, err, ErrVersionNotFound)
	})

	t.Run("history is owner-only", func(t *testing.T) {
		bob := createTestUser(t, db, "bob")
		_, err := svc.ListVersions(cfg.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotOwner)
	})
}

func TestTemplates(t *testing.T) {
	svc, db := newConfigService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	template, err := svc.Create(alice.ID, CreateConfigurationInput{
		Name:       "Standard Branch",
		ConfigType: "interface",
		Data:       map[string]any{"mtu": float64(1500)},
		Tags:       "template,branch",
		IsTemplate: true,
	}, testMeta)
	require.NoError(t, err)

	plain := createTestConfig(t, svc, alice.ID, "not a template")

	t.Run("library is visible across owners", func(t *testing.T) {
		templates, err := svc.ListTemplates()
		require.NoError(t, err)
		require.Len(t, templates, 1)
		assert.Equal(t, "Standard Branch", templates[0].Name)
	})

	t.Run("instantiation copies data into caller-owned record", func(t *testing.T) {
		cfg, err := svc.InstantiateTemplate(template.ID, bob.ID, testMeta)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, cfg.UserID)
		assert.Equal(t, "Standard Branch - New", cfg.Name)
		assert.Equal(t, "Created from template: Standard Branch", cfg.Description)
		assert.False(t, cfg.IsTemplate)
		assert.Equal(t, float64(1500), cfg.Data["mtu"])
		assert.Equal(t, int64(1), cfg.VersionCount)

		version, err := svc.GetVersion(cfg.ID, 1, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, `Created from template "Standard Branch"`, version.ChangeDescription)

		var entry models.AuditLog
		require.NoError(t, db.Where("action = ?", "create_from_template").First(&entry).Error)
		assert.Equal(t, bob.ID, entry.UserID)
	})

	t.Run("non-template cannot be instantiated", func(t *testing.T) {
		_, err := svc.InstantiateTemplate(plain.ID, bob.ID, testMeta)
		assert.ErrorIs(t, err, ErrNotTemplate)
	})

	t.Run("missing template", func(t *testing.T) {
		_, err := svc.InstantiateTemplate(9999, bob.ID, testMeta)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}
