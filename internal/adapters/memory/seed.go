package memory

import (
	"time"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
)

// SeedFamily returns the demo family loaded at boot. Persistence is out of
// scope, so the service always starts from this state.
func SeedFamily() []*entities.FamilyMember {
	now := time.Now()

	return []*entities.FamilyMember{
		{
			ID:        "member-akmal",
			Name:      "Akmal Yusupov",
			Relation:  "self",
			Age:       34,
			BloodType: "O+",
			AvatarURL: "https://i.pravatar.cc/150?u=akmal",
			Records: []entities.MedicalRecord{
				{
					ID:      "rec-akmal-001",
					Type:    entities.RecordTypeCheckup,
					Title:   "Annual physical examination",
					Date:    now.AddDate(0, -2, 0).Format("2006-01-02"),
					Doctor:  "Dr. Karimova",
					Summary: "All vitals within normal range. Mild vitamin D deficiency noted.",
				},
				{
					ID:      "rec-akmal-002",
					Type:    entities.RecordTypeLabResult,
					Title:   "Complete blood count",
					Date:    now.AddDate(0, -5, 0).Format("2006-01-02"),
					Doctor:  "Dr. Karimova",
					Summary: "Hemoglobin and white cell counts normal.",
				},
			},
			Reminders: []entities.Reminder{
				{
					ID:       "rem-akmal-001",
					Title:    "Vitamin D supplement",
					Subtitle: "2000 IU daily with breakfast",
					Date:     now.Format("2006-01-02"),
					Type:     entities.ReminderTypeMedication,
					Urgent:   false,
				},
			},
			Stats: entities.Stats{
				HeartRate:   72,
				Weight:      81,
				Height:      178,
				LastUpdated: now.AddDate(0, -2, 0),
			},
		},
		{
			ID:        "member-malika",
			Name:      "Malika Yusupova",
			Relation:  "daughter",
			Age:       6,
			BloodType: "A+",
			AvatarURL: "https://i.pravatar.cc/150?u=malika",
			Records: []entities.MedicalRecord{
				{
					ID:      "rec-malika-001",
					Type:    entities.RecordTypeVaccination,
					Title:   "MMR booster",
					Date:    now.AddDate(0, -1, 0).Format("2006-01-02"),
					Doctor:  "Dr. Rashidov",
					Summary: "Second dose administered, no adverse reaction.",
				},
			},
			Reminders: []entities.Reminder{
				{
					ID:       "rem-malika-001",
					Title:    "Pediatric checkup",
					Subtitle: "Six-month growth assessment",
					Date:     now.AddDate(0, 0, 14).Format("2006-01-02"),
					Type:     entities.ReminderTypeAppointment,
					Urgent:   true,
				},
			},
			Stats: entities.Stats{
				HeartRate:   95,
				Weight:      21,
				Height:      116,
				LastUpdated: now.AddDate(0, -1, 0),
			},
		},
		{
			ID:        "member-oybek",
			Name:      "Oybek Yusupov",
			Relation:  "father",
			Age:       63,
			BloodType: "B+",
			AvatarURL: "https://i.pravatar.cc/150?u=oybek",
			Records: []entities.MedicalRecord{
				{
					ID:        "rec-oybek-001",
					Type:      entities.RecordTypePrescription,
					Title:     "Hypertension medication renewal",
					Date:      now.AddDate(0, 0, -20).Format("2006-01-02"),
					Doctor:    "Dr. Alimov",
					Summary:   "Lisinopril 10mg daily, renewed for 3 months.",
					RiskLevel: entities.RiskLevelMedium,
				},
			},
			Reminders: []entities.Reminder{
				{
					ID:       "rem-oybek-001",
					Title:    "Blood pressure medication",
					Subtitle: "Lisinopril 10mg, morning",
					Date:     now.Format("2006-01-02"),
					Type:     entities.ReminderTypeMedication,
					Urgent:   true,
				},
			},
			Stats: entities.Stats{
				HeartRate:   78,
				Weight:      88,
				Height:      172,
				LastUpdated: now.AddDate(0, 0, -20),
			},
		},
	}
}

// SeedUser returns the demo account holder.
func SeedUser() *entities.User {
	return &entities.User{
		ID:        "user-main",
		Name:      "Akmal Yusupov",
		AvatarURL: "https://i.pravatar.cc/150?u=akmal",
	}
}
