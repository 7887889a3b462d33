package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

func TestSeedData(t *testing.T) {
	c := New()

	assert.Len(t, c.Doctors(Filter{}), 8)
	assert.Len(t, c.LabTests(Filter{}), 6)
	assert.Len(t, Specializations, 9)
	assert.Len(t, Categories, 7)
}

func TestFilters(t *testing.T) {
	c := New()

	cardio := c.Doctors(Filter{Group: "cardiologist"})
	require.Len(t, cardio, 1)
	assert.Equal(t, "Dr. Emily Carter", cardio[0].Name)

	assert.Len(t, c.Doctors(Filter{Group: FilterAll}), 8)
	assert.Len(t, c.Doctors(Filter{Query: "dr. "}), 8)
	assert.Len(t, c.Doctors(Filter{Query: "green"}), 1)
	assert.Empty(t, c.Doctors(Filter{Group: "Dentist", Query: "carter"}))

	imaging := c.LabTests(Filter{Group: "Imaging"})
	require.Len(t, imaging, 1)
	assert.Equal(t, 3, imaging[0].ID)
}

func TestAddUsesMaxIDPlusOne(t *testing.T) {
	c := New()

	require.NoError(t, c.DeleteDoctor(3))
	d := c.AddDoctor(models.Doctor{Name: "Dr. New", Specialization: "Dentist", Experience: "1 year"})
	assert.Equal(t, 9, d.ID)
	assert.Equal(t, "doctor-9", d.Image)

	require.NoError(t, c.DeleteDoctor(9))
	require.NoError(t, c.DeleteDoctor(8))
	assert.Equal(t, 8, c.AddDoctor(models.Doctor{Name: "Dr. Again"}).ID)

	lt := c.AddLabTest(models.LabTest{Name: "Lipid Panel", Category: "Blood Tests"})
	assert.Equal(t, 7, lt.ID)
}

func TestUpdateAndDelete(t *testing.T) {
	c := New()

	got, err := c.UpdateDoctor(2, models.Doctor{Name: "Dr. Ben Adams", Specialization: "Dermatologist", Experience: "13 years"})
	require.NoError(t, err)
	assert.Equal(t, "doctor-2", got.Image)
	assert.Equal(t, 2, got.ID)

	stored, err := c.Doctor(2)
	require.NoError(t, err)
	assert.Equal(t, "13 years", stored.Experience)

	_, err = c.UpdateDoctor(99, models.Doctor{})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDoctorNotFound))
	assert.True(t, httperr.IsBusiness(c.DeleteLabTest(42), httperr.CodeLabTestNotFound))

	require.NoError(t, c.DeleteLabTest(1))
	_, err = c.LabTest(1)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeLabTestNotFound))
}

func TestCatalogsAreIndependent(t *testing.T) {
	a, b := New(), New()
	require.NoError(t, a.DeleteDoctor(1))
	assert.Len(t, b.Doctors(Filter{}), 8)
}
