package models

// Quote is one immutable entry from the static quote corpus.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}
