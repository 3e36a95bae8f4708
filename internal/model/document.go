package model

const (
	CollectionPosts    = "posts"
	CollectionMessages = "messages"
)

// DocumentCollections lists the collections whose documents embed media references.
var DocumentCollections = []string{CollectionPosts, CollectionMessages}

// Document is the part of a post or message this service reads and writes: its
// identity and its embedded media array.
type Document struct {
	ID         string           `json:"id"`
	Collection string           `json:"collection"`
	Media      []MediaReference `json:"media"`
}
