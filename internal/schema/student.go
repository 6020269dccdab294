package schema

import "bookshelf/internal/domain"

// Student is the external representation of a roster entry
type Student struct {
	ID      int64  `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Grade   int    `json:"grade" yaml:"grade"`
	Address string `json:"address" yaml:"address"`
}

// Validate checks required fields and limits
func (s *Student) Validate() error {
	if err := requireID(s.ID); err != nil {
		return err
	}
	if err := requireText("name", s.Name, domain.MaxNameLen); err != nil {
		return err
	}
	if s.Grade < 0 {
		return domain.Invalid("grade must not be negative, got %d", s.Grade)
	}
	return requireText("address", s.Address, 0)
}

func StudentToRecord(s Student) domain.Student {
	return domain.Student{
		ID:      s.ID,
		Name:    s.Name,
		Grade:   s.Grade,
		Address: s.Address,
	}
}

func StudentFromRecord(r domain.Student) Student {
	return Student{
		ID:      r.ID,
		Name:    r.Name,
		Grade:   r.Grade,
		Address: r.Address,
	}
}
