package domain

// Student is the persisted roster record
type Student struct {
	ID      int64
	Name    string
	Grade   int
	Address string
}
