package models

// Action kinds written to the action log.
const (
	ActionTagged   = "tagged"
	ActionArchived = "archived"
	ActionMoved    = "moved"
)

// Action represents one moderation action performed by a command.
type Action struct {
	ID        int64  `db:"id"`
	Action    string `db:"action"`
	GuildID   string `db:"guild_id"`
	ChannelID string `db:"channel_id"` // channel the command was invoked in
	ThreadID  string `db:"thread_id"`  // thread archived or created
	UserID    string `db:"user_id"`
	Timestamp int64  `db:"timestamp"`
}
