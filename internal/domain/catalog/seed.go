package catalog

import "github.com/BruksfildServices01/healthconnect-api/internal/models"

const FilterAll = "All"

var Specializations = []string{
	FilterAll,
	"Cardiologist",
	"Dermatologist",
	"Neurologist",
	"Orthopedic",
	"Gynecologist",
	"Pediatrician",
	"Ophthalmologist",
	"Dentist",
}

var Categories = []string{
	FilterAll,
	"Blood Tests",
	"Urine Tests",
	"Imaging",
	"Heart Tests",
	"COVID/Viral",
	"Hormone Tests",
}

func seedDoctors() []models.Doctor {
	return []models.Doctor{
		{ID: 1, Name: "Dr. Emily Carter", Specialization: "Cardiologist", Experience: "15 years", Image: "doctor-1"},
		{ID: 2, Name: "Dr. Ben Adams", Specialization: "Dermatologist", Experience: "12 years", Image: "doctor-2"},
		{ID: 3, Name: "Dr. Sarah Jenkins", Specialization: "Neurologist", Experience: "20 years", Image: "doctor-3"},
		{ID: 4, Name: "Dr. Michael Lee", Specialization: "Orthopedic", Experience: "18 years", Image: "doctor-5"},
		{ID: 5, Name: "Dr. Olivia White", Specialization: "Gynecologist", Experience: "10 years", Image: "doctor-4"},
		{ID: 6, Name: "Dr. David Green", Specialization: "Pediatrician", Experience: "25 years", Image: "doctor-7"},
		{ID: 7, Name: "Dr. Laura Martinez", Specialization: "Ophthalmologist", Experience: "14 years", Image: "doctor-6"},
		{ID: 8, Name: "Dr. Robert Brown", Specialization: "Dentist", Experience: "9 years", Image: "doctor-8"},
	}
}

func seedLabTests() []models.LabTest {
	return []models.LabTest{
		{ID: 1, Name: "Complete Blood Count (CBC)", Category: "Blood Tests", Image: "lab-test-1"},
		{ID: 2, Name: "Urinalysis", Category: "Urine Tests", Image: "lab-test-2"},
		{ID: 3, Name: "Magnetic Resonance Imaging (MRI)", Category: "Imaging", Image: "lab-test-3"},
		{ID: 4, Name: "Electrocardiogram (ECG)", Category: "Heart Tests", Image: "lab-test-4"},
		{ID: 5, Name: "COVID-19 RT-PCR Test", Category: "COVID/Viral", Image: "lab-test-5"},
		{ID: 6, Name: "Thyroid Function Test", Category: "Hormone Tests", Image: "lab-test-6"},
	}
}
