package usecases

import (
	"kuppi/internal/domain/catalog"
	"kuppi/internal/shared/biztime"
)

// SubjectDTO is the API representation of a subject.
type SubjectDTO struct {
	SID         string `json:"sid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// VideoDTO is the API representation of a video. It carries no per-user
// play count; playback state is resolved per user by the library view.
type VideoDTO struct {
	SID         string `json:"sid"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	MediaRef    string `json:"media_ref,omitempty"`
	Duration    string `json:"duration,omitempty"`
	MaxPlays    uint   `json:"max_plays"`
	Position    int    `json:"position"`
}

// CourseCardDTO is the API representation of a course card. DescriptionHTML
// is only populated on the detail endpoint, where the markdown description
// is rendered and sanitized for display.
type CourseCardDTO struct {
	SID             string     `json:"sid"`
	SubjectSID      string     `json:"subject_sid,omitempty"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	DescriptionHTML string     `json:"description_html,omitempty"`
	Price           uint64     `json:"price"`
	Currency        string     `json:"currency"`
	IsFree          bool       `json:"is_free"`
	SortOrder       int        `json:"sort_order"`
	Videos          []VideoDTO `json:"videos,omitempty"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
}

func toSubjectDTO(s *catalog.Subject) SubjectDTO {
	return SubjectDTO{
		SID:         s.SID(),
		Name:        s.Name(),
		Description: s.Description(),
		SortOrder:   s.SortOrder(),
		CreatedAt:   biztime.FormatRFC3339(s.CreatedAt()),
		UpdatedAt:   biztime.FormatRFC3339(s.UpdatedAt()),
	}
}

func toVideoDTO(v *catalog.Video) VideoDTO {
	return VideoDTO{
		SID:         v.SID(),
		Title:       v.Title(),
		Description: v.Description(),
		MediaRef:    v.MediaRef(),
		Duration:    v.Duration(),
		MaxPlays:    v.MaxPlays(),
		Position:    v.Position(),
	}
}

func toCourseCardDTO(c *catalog.CourseCard, subjectSID string, videos []*catalog.Video) CourseCardDTO {
	videoDTOs := make([]VideoDTO, 0, len(videos))
	for _, v := range videos {
		videoDTOs = append(videoDTOs, toVideoDTO(v))
	}
	return CourseCardDTO{
		SID:         c.SID(),
		SubjectSID:  subjectSID,
		Name:        c.Name(),
		Description: c.Description(),
		Price:       c.Price(),
		Currency:    c.Currency(),
		IsFree:      c.IsFree(),
		SortOrder:   c.SortOrder(),
		Videos:      videoDTOs,
		CreatedAt:   biztime.FormatRFC3339(c.CreatedAt()),
		UpdatedAt:   biztime.FormatRFC3339(c.UpdatedAt()),
	}
}
