package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// Catalog holds doctors and lab tests in memory. Edits are lost on restart.
type Catalog struct {
	mu       sync.RWMutex
	doctors  []models.Doctor
	labTests []models.LabTest
}

func New() *Catalog {
	return &Catalog{
		doctors:  seedDoctors(),
		labTests: seedLabTests(),
	}
}

// ===============================
// Filters
// ===============================

type Filter struct {
	Group string // specialization or category; "" or "All" matches everything
	Query string // case-insensitive substring of the name
}

func (f Filter) matches(group, name string) bool {
	g := strings.TrimSpace(f.Group)
	if g != "" && !strings.EqualFold(g, FilterAll) && !strings.EqualFold(g, group) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	return q == "" || strings.Contains(strings.ToLower(name), q)
}

// ===============================
// Doctors
// ===============================

func (c *Catalog) Doctors(f Filter) []models.Doctor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Doctor, 0, len(c.doctors))
	for _, d := range c.doctors {
		if f.matches(d.Specialization, d.Name) {
			out = append(out, d)
		}
	}
	return out
}

func (c *Catalog) Doctor(id int) (models.Doctor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, d := range c.doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Doctor{}, httperr.ErrBusiness(httperr.CodeDoctorNotFound)
}

func (c *Catalog) AddDoctor(d models.Doctor) models.Doctor {
	c.mu.Lock()
	defer c.mu.Unlock()

	maxID := 0
	for _, existing := range c.doctors {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	d.ID = maxID + 1
	if d.Image == "" {
		d.Image = fmt.Sprintf("doctor-%d", d.ID)
	}

	c.doctors = append(c.doctors, d)
	return d
}

// UpdateDoctor replaces the doctor's fields, keeping the id and, when d has
// none, the image.
func (c *Catalog) UpdateDoctor(id int, d models.Doctor) (models.Doctor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.doctors {
		if c.doctors[i].ID != id {
			continue
		}
		d.ID = id
		if d.Image == "" {
			d.Image = c.doctors[i].Image
		}
		c.doctors[i] = d
		return d, nil
	}
	return models.Doctor{}, httperr.ErrBusiness(httperr.CodeDoctorNotFound)
}

func (c *Catalog) DeleteDoctor(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.doctors {
		if c.doctors[i].ID == id {
			c.doctors = append(c.doctors[:i], c.doctors[i+1:]...)
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeDoctorNotFound)
}

// ===============================
// Lab tests
// ===============================

func (c *Catalog) LabTests(f Filter) []models.LabTest {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.LabTest, 0, len(c.labTests))
	for _, t := range c.labTests {
		if f.matches(t.Category, t.Name) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) LabTest(id int) (models.LabTest, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.labTests {
		if t.ID == id {
			return t, nil
		}
	}
	return models.LabTest{}, httperr.ErrBusiness(httperr.CodeLabTestNotFound)
}

func (c *Catalog) AddLabTest(t models.LabTest) models.LabTest {
	c.mu.Lock()
	defer c.mu.Unlock()

	maxID := 0
	for _, existing := range c.labTests {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	t.ID = maxID + 1
	if t.Image == "" {
		t.Image = fmt.Sprintf("lab-test-%d", t.ID)
	}

	c.labTests = append(c.labTests, t)
	return t
}

func (c *Catalog) UpdateLabTest(id int, t models.LabTest) (models.LabTest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.labTests {
		if c.labTests[i].ID != id {
			continue
		}
		t.ID = id
		if t.Image == "" {
			t.Image = c.labTests[i].Image
		}
		c.labTests[i] = t
		return t, nil
	}
	return models.LabTest{}, httperr.ErrBusiness(httperr.CodeLabTestNotFound)
}

func (c *Catalog) DeleteLabTest(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.labTests {
		if c.labTests[i].ID == id {
			c.labTests = append(c.labTests[:i], c.labTests[i+1:]...)
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeLabTestNotFound)
}
