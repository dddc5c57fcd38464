package fantia

import (
	"encoding/json"
	"fmt"
	"strings"
)

// fakeFetcher is an in-memory Fetcher serving canned listing pages and post
// API responses, recording every requested URL.
type fakeFetcher struct {
	pages     map[string]string // URL -> listing HTML
	posts     map[string]string // URL -> post JSON
	errs      map[string]error  // URL -> injected error
	requested []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]string),
		posts: make(map[string]string),
		errs:  make(map[string]error),
	}
}

func (f *fakeFetcher) BaseURL() string { return "https://fantia.jp" }

func (f *fakeFetcher) GetHTML(url string) ([]byte, error) {
	f.requested = append(f.requested, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, &Error{Type: ErrorTypeNotFound, Message: "no such page", Code: 404}
	}
	return []byte(html), nil
}

func (f *fakeFetcher) GetJSON(url string, target interface{}) error {
	f.requested = append(f.requested, url)
	if err, ok := f.errs[url]; ok {
		return err
	}
	body, ok := f.posts[url]
	if !ok {
		return &Error{Type: ErrorTypeNotFound, Message: "no such post", Code: 404}
	}
	return json.Unmarshal([]byte(body), target)
}

func (f *fakeFetcher) requestedCount(url string) int {
	n := 0
	for _, r := range f.requested {
		if r == url {
			n++
		}
	}
	return n
}

// listingEntry renders one post card in the fan club index markup.
func listingEntry(id int, title, priceLabel string, locked bool) string {
	lockedDiv := ""
	if locked {
		lockedDiv = `<div class="locked-thumb"></div>`
	}
	return fmt.Sprintf(`
<div class="module post">
  <a class="link-block" href="/posts/%d">
    %s
    <h3 class="post-title">%s</h3>
    <div class="post-labels"><span class="label">%s</span></div>
  </a>
</div>`, id, lockedDiv, title, priceLabel)
}

// listingPage wraps entries in a minimal logged-in listing document.
func listingPage(entries ...string) string {
	return fmt.Sprintf(`<html><head>
<script id="frontend-params" type="application/json">{"is_logged_in": true}</script>
</head><body>%s</body></html>`, strings.Join(entries, "\n"))
}

// loggedOutPage is a listing document served to an expired session.
const loggedOutPage = `<html><head>
<script id="frontend-params" type="application/json">{"is_logged_in": false}</script>
</head><body></body></html>`

// postJSON renders a post API payload with per-section comments.
func postJSON(id int, title, fanclubName string, price int, comments ...string) string {
	type planJSON struct {
		Price int `json:"price"`
	}
	type contentJSON struct {
		Comment string    `json:"comment"`
		Plan    *planJSON `json:"plan,omitempty"`
	}
	type fanclubJSON struct {
		ID   int    `json:"id"`
		Name string `json:"fanclub_name_with_creator_name"`
	}

	contents := make([]contentJSON, 0, len(comments))
	for i, c := range comments {
		entry := contentJSON{Comment: c}
		if i == 0 && price > 0 {
			entry.Plan = &planJSON{Price: price}
		}
		contents = append(contents, entry)
	}

	payload := map[string]interface{}{
		"post": map[string]interface{}{
			"id":            id,
			"title":         title,
			"fanclub":       fanclubJSON{ID: 77, Name: fanclubName},
			"post_contents": contents,
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}
