package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRawMeteorite() RawMeteorite {
	return RawMeteorite{
		Name:  "Aachen",
		ID:    "1",
		Class: "L5",
		Mass:  "21",
		Fall:  "Fell",
		Year:  "1880.0",
		Lat:   "50.775",
		Lon:   "6.08333",
	}
}

func TestDeriveMeteorite(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		result, err := DeriveMeteorite(validRawMeteorite())

		require.NoError(t, err)
		assert.Equal(t, "Aachen", result.Name)
		assert.Equal(t, int64(1), result.ID)
		assert.Equal(t, "L5", result.Class)
		assert.Equal(t, 21.0, result.MassGrams)
		assert.Equal(t, FallFell, result.Fall)
		assert.Equal(t, 1880, result.Year)
		assert.Equal(t, 50.775, result.Lat)
		assert.Equal(t, 6.08333, result.Lon)
	})

	t.Run("integer year", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.Year = "2013"
		result, err := DeriveMeteorite(raw)

		require.NoError(t, err)
		assert.Equal(t, 2013, result.Year)
	})

	t.Run("missing year", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.Year = ""
		_, err := DeriveMeteorite(raw)

		require.ErrorIs(t, err, ErrMissingYear)
		assert.Equal(t, "missing_year", DropReason(err))
	})

	t.Run("unparseable year", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.Year = "unknown"
		_, err := DeriveMeteorite(raw)

		require.ErrorIs(t, err, ErrMissingYear)
	})

	t.Run("missing mass", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.Mass = ""
		_, err := DeriveMeteorite(raw)

		require.ErrorIs(t, err, ErrMissingMass)
	})

	t.Run("zero mass", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.Mass = "0"
		_, err := DeriveMeteorite(raw)

		require.ErrorIs(t, err, ErrNonPositiveMass)
		assert.Equal(t, "non_positive_mass", DropReason(err))
	})

	t.Run("negative mass", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.Mass = "-5"
		_, err := DeriveMeteorite(raw)

		require.ErrorIs(t, err, ErrNonPositiveMass)
	})

	t.Run("missing latitude", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.Lat = ""
		_, err := DeriveMeteorite(raw)

		require.ErrorIs(t, err, ErrMissingCoordinates)
	})

	t.Run("missing longitude", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.Lon = ""
		_, err := DeriveMeteorite(raw)

		require.ErrorIs(t, err, ErrMissingCoordinates)
	})

	t.Run("unparseable id tolerated", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.ID = "n/a"
		result, err := DeriveMeteorite(raw)

		require.NoError(t, err)
		assert.Equal(t, int64(0), result.ID)
	})

	t.Run("NaN mass counts as missing", func(t *testing.T) {
		raw := validRawMeteorite()
		raw.Mass = "NaN"
		_, err := DeriveMeteorite(raw)

		require.ErrorIs(t, err, ErrMissingMass)
	})
}
