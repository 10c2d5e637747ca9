package store

import (
	"testing"

	e "github.com/gartstein/counterparty/internal/counterparty/errors"
	"github.com/gartstein/counterparty/internal/counterparty/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoRecords() []models.Counterparty {
	return []models.Counterparty{
		{ID: "1", CompanyName: "ООО Транспортная Компания", TaxID: "7701234567", Status: models.StatusActive},
		{ID: "2", CompanyName: "ИП Сергеев И.П.", TaxID: "771234567890", Status: models.StatusInvited},
		{ID: "3", CompanyName: "ООО Строительная Группа", TaxID: "7712345678", Status: models.StatusPending},
	}
}

func ids(records []models.Counterparty) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestStore_Load(t *testing.T) {
	s := New()
	s.Load(demoRecords())
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.All()))

	t.Run("replaces wholesale", func(t *testing.T) {
		s.Load([]models.Counterparty{{ID: "9", CompanyName: "Other", TaxID: "1", Status: models.StatusPending}})
		assert.Equal(t, []string{"9"}, ids(s.All()))
	})

	t.Run("accepts empty input", func(t *testing.T) {
		s.Load(nil)
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Filter(""))
	})

	t.Run("does not alias caller slice", func(t *testing.T) {
		in := demoRecords()
		s.Load(in)
		in[0].CompanyName = "changed"
		assert.Equal(t, "ООО Транспортная Компания", s.All()[0].CompanyName)
	})
}

func TestStore_Filter(t *testing.T) {
	s := New()
	s.Load(demoRecords())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query matches all", query: "", want: []string{"1", "2", "3"}},
		{name: "tax id substring", query: "77012", want: []string{"1"}},
		{name: "company name prefix", query: "ООО", want: []string{"1", "3"}},
		{name: "case insensitive name", query: "ооо строительная", want: []string{"3"}},
		{name: "upper case query", query: "СЕРГЕЕВ", want: []string{"2"}},
		{name: "shared tax id prefix", query: "77", want: []string{"1", "2", "3"}},
		{name: "no match", query: "Рога и копыта", want: []string{}},
		{name: "whitespace is literal", query: "  ", want: []string{}},
		{name: "single space matches names with spaces", query: " ", want: []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(s.Filter(tt.query)))
		})
	}
}

func TestStore_FilterIsIdempotent(t *testing.T) {
	s := New()
	s.Load(demoRecords())

	for _, q := range []string{"", "ООО", "77", "ип", "x"} {
		first := s.Filter(q)
		again := New()
		again.Load(first)
		assert.Equal(t, first, again.Filter(q), "query %q", q)
	}
}

func TestStore_Invite(t *testing.T) {
	t.Run("pending record", func(t *testing.T) {
		s := New()
		s.Load(demoRecords())

		got, err := s.Invite("3")
		require.NoError(t, err)
		assert.Equal(t, models.StatusInvited, got.Status)
		assert.Equal(t, "3", got.ID)

		all := s.All()
		assert.Len(t, all, 3)
		assert.Equal(t, demoRecords()[0], all[0])
		assert.Equal(t, demoRecords()[1], all[1])
		assert.Equal(t, models.StatusInvited, all[2].Status)
	})

	t.Run("unknown id leaves collection unchanged", func(t *testing.T) {
		s := New()
		s.Load(demoRecords())

		_, err := s.Invite("42")
		assert.ErrorIs(t, err, e.ErrNotFound)
		assert.Equal(t, demoRecords(), s.All())
	})

	t.Run("active record is downgraded by default", func(t *testing.T) {
		s := New()
		s.Load(demoRecords())

		got, err := s.Invite("1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusInvited, got.Status)
	})

	t.Run("pending only rejects active record", func(t *testing.T) {
		s := New(WithPendingOnlyInvites())
		s.Load(demoRecords())

		_, err := s.Invite("1")
		assert.ErrorIs(t, err, e.ErrInvalidTransition)
		assert.Equal(t, models.StatusActive, s.All()[0].Status)

		got, err := s.Invite("3")
		require.NoError(t, err)
		assert.Equal(t, models.StatusInvited, got.Status)
	})

	t.Run("duplicate ids resolve to first match", func(t *testing.T) {
		s := New()
		s.Load([]models.Counterparty{
			{ID: "a", CompanyName: "First", TaxID: "1", Status: models.StatusPending},
			{ID: "a", CompanyName: "Second", TaxID: "2", Status: models.StatusPending},
		})

		got, err := s.Invite("a")
		require.NoError(t, err)
		assert.Equal(t, "First", got.CompanyName)
		assert.Equal(t, models.StatusPending, s.All()[1].Status)
	})
}

func TestStore_CountByStatus(t *testing.T) {
	s := New()
	s.Load(demoRecords())

	assert.Equal(t, 1, s.CountByStatus(models.StatusPending))
	assert.Equal(t, 1, s.CountByStatus(models.StatusInvited))
	assert.Equal(t, 1, s.CountByStatus(models.StatusActive))

	_, err := s.Invite("3")
	require.NoError(t, err)

	sum := s.Summary()
	assert.Equal(t, models.Summary{Pending: 0, Invited: 2, Active: 1, Total: 3}, sum)
	assert.Equal(t, sum.Total, sum.Pending+sum.Invited+sum.Active)
}
