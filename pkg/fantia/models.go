package fantia

import "strings"

// Tier is the access-tier marker of a post as shown on the listing page.
type Tier string

const (
	TierFree         Tier = "free"
	TierPaidLocked   Tier = "paid-locked"
	TierPaidUnlocked Tier = "paid-unlocked"
	TierUnknown      Tier = ""
)

// Paid reports whether the tier is one of the paid markers.
func (t Tier) Paid() bool {
	return t == TierPaidLocked || t == TierPaidUnlocked
}

// PostSummary is one entry of a fan club's post index.
type PostSummary struct {
	ID    int
	Title string
	Tier  Tier
}

// PostContent is the extracted text content of a single post.
type PostContent struct {
	ID          int
	Title       string
	FanclubName string
	Blocks      []string
	Paid        bool
}

// Body joins the text blocks with paragraph-preserving blank lines.
func (c *PostContent) Body() string {
	return strings.Join(c.Blocks, "\n\n")
}

// postResponse mirrors the relevant parts of the post API payload.
type postResponse struct {
	Post *postData `json:"post"`
}

type postData struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Comment     string    `json:"comment"`
	BlogComment string    `json:"blog_comment"`
	Fanclub     *fanclub  `json:"fanclub"`
	Contents    []content `json:"post_contents"`
}

type fanclub struct {
	ID                         int    `json:"id"`
	FanclubNameWithCreatorName string `json:"fanclub_name_with_creator_name"`
}

type content struct {
	Comment string `json:"comment"`
	Plan    *plan  `json:"plan"`
}

type plan struct {
	Price int `json:"price"`
}
