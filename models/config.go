package models

// Config is the decoded form of the forums, auth, database and health sections.
type Config struct {
	Forums   ForumsConfig   `json:"forums" mapstructure:"forums"`
	Auth     AuthConfig     `json:"auth" mapstructure:"auth"`
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Health   HealthConfig   `json:"health" mapstructure:"health"`
}

// ForumsConfig configures the done and tohelp commands.
type ForumsConfig struct {
	// Closeable maps a forum channel ID to the name of its close tag.
	// An empty name makes the channel closeable without tagging.
	Closeable   map[string]string `json:"closeable" mapstructure:"closeable"`
	HelpChannel string            `json:"help_channel" mapstructure:"help_channel"`
	HelpfulRole string            `json:"helpful_role" mapstructure:"helpful_role"`
}

// IsCloseable reports whether threads under channelID may be marked done.
func (c ForumsConfig) IsCloseable(channelID string) bool {
	_, ok := c.Closeable[channelID]
	return ok
}

// AuthConfig lists the users and roles treated as staff.
type AuthConfig struct {
	Developers []string `json:"developers" mapstructure:"developers"`
	StaffRoles []string `json:"staff_roles" mapstructure:"staff_roles"`
}

// DatabaseConfig configures the sqlite action log.
type DatabaseConfig struct {
	Path          string `json:"path" mapstructure:"path"`
	RetentionDays int    `json:"retention_days" mapstructure:"retention_days"`
}

// HealthConfig configures the gRPC health service.
type HealthConfig struct {
	Address string `json:"address" mapstructure:"address"`
}
