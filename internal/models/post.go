package models

// Post represents a published post. Its identifier is not stored on the
// record; it is the hash of the record itself.
type Post struct {
	Content []byte    `json:"content"`
	Author  AccountID `json:"author"`
}

// PostView is the API representation of a post. Content is opaque bytes
// and encodes as base64 like every other content field.
type PostView struct {
	ID      Hash      `json:"post_id"`
	Content []byte    `json:"content"`
	Author  AccountID `json:"author"`
}

// NewPostView builds the API representation of a stored post
func NewPostView(id Hash, p Post) PostView {
	return PostView{ID: id, Content: append([]byte(nil), p.Content...), Author: p.Author}
}
