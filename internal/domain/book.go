package domain

// Column limits shared by the store schema and input validation
const (
	MaxTitleLen     = 50
	MaxAuthorLen    = 50
	MaxPublisherLen = 50
	MaxNameLen      = 10
)

// Book is the persisted catalogue record
type Book struct {
	ID        int64
	Title     string
	Author    string
	Publisher string
}
