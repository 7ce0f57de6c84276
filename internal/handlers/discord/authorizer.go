package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/slitherbot/slither/internal/auth"
	guildRepo "github.com/slitherbot/slither/internal/repositories/guild"
)

// Authorizer answers moderator checks against Discord guild roles. A
// guild can pin moderation to a specific role through its settings;
// otherwise anyone with Manage Server counts as a moderator.
type Authorizer struct {
	session   *discordgo.Session
	guildRepo guildRepo.Repository
}

// AuthorizerConfig holds the configuration for the authorizer
type AuthorizerConfig struct {
	// Session is the open Discord session to query members through
	Session *discordgo.Session

	// GuildRepo stores per-guild moderator role settings
	GuildRepo guildRepo.Repository
}

// NewAuthorizer creates a Discord-backed authorizer
func NewAuthorizer(cfg *AuthorizerConfig) (*Authorizer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("session cannot be nil")
	}

	if cfg.GuildRepo == nil {
		return nil, errors.New("guild repository cannot be nil")
	}

	return &Authorizer{
		session:   cfg.Session,
		guildRepo: cfg.GuildRepo,
	}, nil
}

// IsModerator reports whether the user may run moderator operations
func (a *Authorizer) IsModerator(ctx context.Context, input *auth.IsModeratorInput) (bool, error) {
	if input == nil || input.UserID == "" || input.GuildID == "" {
		return false, nil
	}

	member, err := a.member(input.GuildID, input.UserID)
	if err != nil {
		return false, err
	}

	settings, err := a.guildRepo.GetSettings(ctx, &guildRepo.GetSettingsInput{
		GuildID: input.GuildID,
	})
	if err != nil && !errors.Is(err, guildRepo.ErrSettingsNotFound) {
		return false, err
	}

	if settings != nil && settings.ModeratorRoleID != "" {
		for _, roleID := range member.Roles {
			if roleID == settings.ModeratorRoleID {
				return true, nil
			}
		}
	}

	return a.hasManageServer(input.GuildID, member)
}

// member reads a guild member from the state cache, falling back to the API
func (a *Authorizer) member(guildID, userID string) (*discordgo.Member, error) {
	if member, err := a.session.State.Member(guildID, userID); err == nil {
		return member, nil
	}

	member, err := a.session.GuildMember(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild member: %w", err)
	}
	return member, nil
}

// hasManageServer checks the member's roles for Manage Server or Administrator
func (a *Authorizer) hasManageServer(guildID string, member *discordgo.Member) (bool, error) {
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		guild, err = a.session.Guild(guildID)
		if err != nil {
			return false, fmt.Errorf("failed to fetch guild: %w", err)
		}
	}

	if guild.OwnerID == member.User.ID {
		return true, nil
	}

	roles := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, role := range guild.Roles {
		roles[role.ID] = role
	}

	for _, roleID := range member.Roles {
		role, ok := roles[roleID]
		if !ok {
			continue
		}
		if role.Permissions&(discordgo.PermissionManageServer|discordgo.PermissionAdministrator) != 0 {
			return true, nil
		}
	}

	return false, nil
}
