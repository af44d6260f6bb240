package domain

// MaxPostTitleLength is the longest title a post may have, in characters.
const MaxPostTitleLength = 200

// Post is a blog article.
type Post struct {
	Timestamps
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	AuthorID       string `json:"author_id"`
	AuthorUsername string `json:"author_username"`

	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
}

// CategoryIDs returns the IDs of the post's categories in order.
func (p *Post) CategoryIDs() []int64 {
	ids := make([]int64, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}

// TagIDs returns the IDs of the post's tags in order.
func (p *Post) TagIDs() []int64 {
	ids := make([]int64, len(p.Tags))
	for i, t := range p.Tags {
		ids[i] = t.ID
	}
	return ids
}
