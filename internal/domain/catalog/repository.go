package catalog

import (
	"context"
)

type SubjectRepository interface {
	Create(ctx context.Context, subject *Subject) error
	GetByID(ctx context.Context, id uint) (*Subject, error)
	GetBySID(ctx context.Context, sid string) (*Subject, error)
	Update(ctx context.Context, subject *Subject) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filter SubjectFilter) ([]*Subject, int64, error)
	ListAll(ctx context.Context) ([]*Subject, error)
}

type SubjectFilter struct {
	Name     *string
	Page     int
	PageSize int
}

type CourseCardRepository interface {
	Create(ctx context.Context, card *CourseCard) error
	GetByID(ctx context.Context, id uint) (*CourseCard, error)
	GetBySID(ctx context.Context, sid string) (*CourseCard, error)
	Update(ctx context.Context, card *CourseCard) error
	Delete(ctx context.Context, id uint) error

	ListBySubjectID(ctx context.Context, subjectID uint) ([]*CourseCard, error)
	ListAll(ctx context.Context) ([]*CourseCard, error)
	List(ctx context.Context, filter CourseCardFilter) ([]*CourseCard, int64, error)
}

type CourseCardFilter struct {
	SubjectID *uint
	IsFree    *bool
	Page      int
	PageSize  int
}

type VideoRepository interface {
	Create(ctx context.Context, video *Video) error
	GetByID(ctx context.Context, id uint) (*Video, error)
	GetBySID(ctx context.Context, sid string) (*Video, error)
	Update(ctx context.Context, video *Video) error
	Delete(ctx context.Context, id uint) error

	ListByCardID(ctx context.Context, cardID uint) ([]*Video, error)
	ListByCardIDs(ctx context.Context, cardIDs []uint) ([]*Video, error)
	CountByCardID(ctx context.Context, cardID uint) (int64, error)

	// DeleteByCardIDs removes every video belonging to the given cards.
	// Used by cascade deletes; callers run it inside a transaction together
	// with the dependent progress and purchase cleanup.
	DeleteByCardIDs(ctx context.Context, cardIDs []uint) error
}
