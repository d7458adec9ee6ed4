package models

// EventKind represents the type of a ledger event
type EventKind string

const (
	EventPostCreated    EventKind = "post_created"
	EventCommentCreated EventKind = "comment_created"
	EventTipped         EventKind = "tipped"
)

// Event is emitted once for every successful ledger operation.
// Account is the post author for PostCreated, the commenter for
// CommentCreated and the tipper for Tipped.
type Event struct {
	Kind    EventKind `json:"kind"`
	Account AccountID `json:"account"`
	PostID  Hash      `json:"post_id"`
	Content []byte    `json:"content,omitempty"`
}

// PostCreated builds a PostCreated event
func PostCreated(content []byte, author AccountID, postID Hash) Event {
	return Event{Kind: EventPostCreated, Account: author, PostID: postID, Content: content}
}

// CommentCreated builds a CommentCreated event
func CommentCreated(content []byte, author AccountID, postID Hash) Event {
	return Event{Kind: EventCommentCreated, Account: author, PostID: postID, Content: content}
}

// Tipped builds a Tipped event
func Tipped(tipper AccountID, postID Hash) Event {
	return Event{Kind: EventTipped, Account: tipper, PostID: postID}
}
