package postgres

import (
	"time"

	"github.com/google/uuid"

	"ipms/pkg/domain"
)

// PgSubmission is the row shape of the contact_submissions table.
type PgSubmission struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Name    string `db:"name"`
	Email   string `db:"email"`
	Message string `db:"message"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgSubmission) ToDomain() *domain.Submission {
	return &domain.Submission{
		ID:        domain.SubmissionID(p.ID),
		Name:      p.Name,
		Email:     p.Email,
		Message:   p.Message,
		CreatedAt: p.CreatedAt,
	}
}

func (p *PgSubmission) FromDomain(s domain.Submission) {
	*p = PgSubmission{
		ID:        uuid.UUID(s.ID),
		Name:      s.Name,
		Email:     s.Email,
		Message:   s.Message,
		CreatedAt: s.CreatedAt,
	}
}

func pgSubmissionsToDomain(rows []PgSubmission) []domain.Submission {
	out := make([]domain.Submission, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out
}
