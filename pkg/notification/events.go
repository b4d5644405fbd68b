package notification

// Event constructors keep notification creation consistent across the
// platform: each sets the type, priority, channels, content references and
// group key the delivery pipeline expects for that event class. Sender names
// in messages are template variables resolved at render time.

// NewLike builds a notification for a like on the recipient's note.
func NewLike(recipientID, likerID, noteID string) Notification {
	n := New(recipientID, likerID, TypeLike, "New like on your note", "{{sender_name}} liked your note")
	n.NoteID = noteID
	n.GroupKey = "like_" + noteID
	n.Priority = PriorityLow
	n.TemplateData = map[string]any{"sender_name": likerID}
	return n
}

// NewComment builds a notification for a comment on the recipient's note.
func NewComment(recipientID, commenterID, noteID, commentID string) Notification {
	n := New(recipientID, commenterID, TypeComment, "New comment on your note", "{{sender_name}} commented on your note: {{comment_preview}}")
	n.NoteID = noteID
	n.CommentID = commentID
	n.GroupKey = "comment_" + noteID
	n.Channels = n.Channels.With(ChannelEmail)
	n.TemplateData = map[string]any{"sender_name": commenterID}
	return n
}

// NewFollow builds a notification for a new follower.
func NewFollow(recipientID, followerID string) Notification {
	n := New(recipientID, followerID, TypeFollow, "New follower", "{{sender_name}} started following you")
	n.Priority = PriorityHigh
	n.Channels = n.Channels.With(ChannelEmail)
	n.TemplateData = map[string]any{"sender_name": followerID}
	return n
}

// NewMention builds a notification for a mention in a note.
func NewMention(recipientID, mentionerID, noteID string) Notification {
	n := New(recipientID, mentionerID, TypeMention, "You were mentioned", "{{sender_name}} mentioned you in a note")
	n.NoteID = noteID
	n.Priority = PriorityUrgent
	n.Channels = n.Channels.With(ChannelEmail)
	n.TemplateData = map[string]any{"sender_name": mentionerID}
	return n
}

// NewReply builds a notification for a reply to the recipient's comment.
func NewReply(recipientID, replierID, noteID, commentID string) Notification {
	n := New(recipientID, replierID, TypeReply, "New reply to your comment", "{{sender_name}} replied to your comment")
	n.NoteID = noteID
	n.CommentID = commentID
	n.GroupKey = "reply_" + commentID
	n.TemplateData = map[string]any{"sender_name": replierID}
	return n
}

// NewRenote builds a notification for a renote of the recipient's note.
func NewRenote(recipientID, renoterID, noteID string) Notification {
	n := New(recipientID, renoterID, TypeRenote, "Your note was renoted", "{{sender_name}} renoted your note")
	n.NoteID = noteID
	n.GroupKey = "renote_" + noteID
	n.Channels = n.Channels.With(ChannelEmail)
	n.TemplateData = map[string]any{"sender_name": renoterID}
	return n
}

// NewQuote builds a notification for a quote of the recipient's note.
func NewQuote(recipientID, quoterID, noteID string) Notification {
	n := New(recipientID, quoterID, TypeQuote, "Your note was quoted", "{{sender_name}} quoted your note")
	n.NoteID = noteID
	n.GroupKey = "quote_" + noteID
	n.TemplateData = map[string]any{"sender_name": quoterID}
	return n
}

// NewDirectMessage builds a notification for an incoming DM. Direct messages
// are urgent and bypass batching and rate limiting in the pipeline.
func NewDirectMessage(recipientID, senderID, conversationID string) Notification {
	n := New(recipientID, senderID, TypeDirectMessage, "New message", "{{sender_name}} sent you a message")
	n.ConversationID = conversationID
	n.Priority = PriorityUrgent
	n.Channels = n.Channels.With(ChannelEmail)
	n.TemplateData = map[string]any{"sender_name": senderID}
	return n
}

// NewSystem builds a system notification. System notifications are never
// grouped with user events.
func NewSystem(recipientID, title, message string, priority Priority) Notification {
	n := New(recipientID, "system", TypeSystemAlert, title, message)
	n.Priority = priority
	n.Channels = n.Channels.With(ChannelEmail)
	return n
}
