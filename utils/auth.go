package utils

import (
	"log"
	"slices"

	"forums-bot/models"

	"github.com/bwmarrin/discordgo"
)

// StaffPermissions are the channel permissions that count as staff.
const StaffPermissions = discordgo.PermissionAdministrator | discordgo.PermissionManageThreads | discordgo.PermissionManageMessages

// PermissionLookup returns the computed permissions of a user in a channel.
type PermissionLookup func(userID, channelID string) (int64, error)

// Auth provides methods for authorization checks.
type Auth struct {
	config      models.AuthConfig
	permissions PermissionLookup
}

// NewAuth creates a new Auth instance. permissions may be nil, in which case
// only configured developers and staff roles count as staff.
func NewAuth(config models.AuthConfig, permissions PermissionLookup) *Auth {
	return &Auth{config: config, permissions: permissions}
}

// SessionPermissions adapts a discordgo session into a PermissionLookup.
func SessionPermissions(s *discordgo.Session) PermissionLookup {
	return func(userID, channelID string) (int64, error) {
		return s.UserChannelPermissions(userID, channelID)
	}
}

// IsDeveloper checks if a user is a developer.
func (a *Auth) IsDeveloper(userID string) bool {
	return slices.Contains(a.config.Developers, userID)
}

// IsStaffRole checks if a member holds one of the staff roles.
func (a *Auth) IsStaffRole(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	for _, roleID := range a.config.StaffRoles {
		if slices.Contains(member.Roles, roleID) {
			return true
		}
	}
	return false
}

// IsStaff checks developers, staff roles and finally the member's
// permissions in channelID. Permissions precomputed by an interaction take
// precedence over the lookup.
func (a *Auth) IsStaff(userID string, member *discordgo.Member, channelID string) bool {
	if a.IsDeveloper(userID) || a.IsStaffRole(member) {
		return true
	}
	if member != nil && member.Permissions != 0 {
		return member.Permissions&StaffPermissions != 0
	}
	if a.permissions == nil || channelID == "" {
		return false
	}

	perms, err := a.permissions(userID, channelID)
	if err != nil {
		log.Printf("Failed to compute permissions of %s in %s: %v", userID, channelID, err)
		return false
	}
	return perms&StaffPermissions != 0
}

// HasRole checks if a member holds roleID.
func (a *Auth) HasRole(member *discordgo.Member, roleID string) bool {
	if member == nil || roleID == "" {
		return false
	}
	return slices.Contains(member.Roles, roleID)
}
