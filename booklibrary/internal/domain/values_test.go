package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/domain"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/errs"
)

func TestNewIsbn(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		raw     string
		wantErr bool
	}{
		{raw: "9780134190440"},
		{raw: "013419044X"},
		{raw: "013419044x"},
		{raw: "0134190440"},
		{raw: "", wantErr: true},
		{raw: "978-0134190440", wantErr: true},
		{raw: "12345", wantErr: true},
		{raw: "97801341904400", wantErr: true},
		{raw: "X780134190440", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			isbn, err := domain.NewIsbn(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidIsbn)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.raw, isbn.String())
		})
	}
}

func TestNewEmail(t *testing.T) {
	t.Parallel()

	_, err := domain.NewEmail("ivan.petrov@example.com")
	require.NoError(t, err)

	_, err = domain.NewEmail("not-an-email")
	require.ErrorIs(t, err, errs.ErrInvalidEmail)

	_, err = domain.NewEmail("")
	require.ErrorIs(t, err, errs.ErrInvalidEmail)
}

func TestNewAbonement(t *testing.T) {
	t.Parallel()

	_, err := domain.NewAbonement(uuid.Nil, 0)
	require.ErrorIs(t, err, errs.ErrInvalidBorrowerAbonentID)

	_, err = domain.NewAbonement(uuid.New(), -1)
	require.ErrorIs(t, err, errs.ErrInvalidBorrowedBooksCount)

	a, err := domain.NewAbonement(uuid.New(), 2)
	require.NoError(t, err)
	require.Equal(t, 2, a.BorrowedBooksCount)
}

func TestDateOf(t *testing.T) {
	t.Parallel()

	moscow := time.FixedZone("MSK", 3*60*60)
	at := time.Date(2026, 1, 10, 1, 30, 0, 0, moscow) // 2026-01-09 22:30 UTC
	require.Equal(t, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), domain.DateOf(at))
}

func TestAuthorsText(t *testing.T) {
	t.Parallel()

	donovan, err := domain.NewAuthor("Alan", "Donovan", "")
	require.NoError(t, err)
	kernighan, err := domain.NewAuthor("Brian", "Kernighan", "")
	require.NoError(t, err)

	require.Equal(t, "Donovan Alan,Kernighan Brian", domain.AuthorsText([]domain.Author{donovan, kernighan}))
}
