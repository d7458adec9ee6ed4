package models

// Comment represents a comment appended to a post's comment sequence
type Comment struct {
	Content []byte    `json:"content"`
	PostID  Hash      `json:"post_id"`
	Author  AccountID `json:"author"`
}

// CommentView is the API representation of a comment
type CommentView struct {
	Content []byte    `json:"content"`
	PostID  Hash      `json:"post_id"`
	Author  AccountID `json:"author"`
}

// NewCommentViews converts a comment sequence for API output, keeping order
func NewCommentViews(comments []Comment) []CommentView {
	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{Content: append([]byte(nil), c.Content...), PostID: c.PostID, Author: c.Author}
	}
	return views
}
