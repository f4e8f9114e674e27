// Command seed wipes both collections and loads demo providers and
// appointments for local development.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/carebook/carebook/internal/appointments"
	appconfig "github.com/carebook/carebook/internal/config"
	"github.com/carebook/carebook/internal/providers"
	"github.com/carebook/carebook/internal/storage"
	"github.com/carebook/carebook/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := storage.New(cfg.MongoURI, cfg.MongoDatabase, logger)
	defer store.Close(context.Background())

	if err := run(ctx, store, logger); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("demo data seeded successfully")
}

func run(ctx context.Context, store *storage.Store, logger *logging.Logger) error {
	providersColl, err := store.Collection(ctx, "providers")
	if err != nil {
		return err
	}
	appointmentsColl, err := store.Collection(ctx, "appointments")
	if err != nil {
		return err
	}

	if _, err := providersColl.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if _, err := appointmentsColl.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	logger.Info("cleared existing data")

	providersRepo := providers.NewMongoRepository(store, logger)
	appointmentsRepo := appointments.NewMongoRepository(store, logger)
	if err := providersRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := appointmentsRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	for _, p := range demoProviders() {
		provider := p
		if err := providersRepo.Create(ctx, &provider); err != nil {
			return err
		}
	}
	logger.Info("inserted providers", "count", len(demoProviders()))

	for _, a := range demoAppointments() {
		appointment := a
		if err := appointmentsRepo.Create(ctx, &appointment); err != nil {
			return err
		}
	}
	logger.Info("inserted appointments", "count", len(demoAppointments()))
	return nil
}

func demoProviders() []providers.Provider {
	weekdaysOnly := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	return []providers.Provider{
		{
			Name:           "Dr. Sarah Johnson",
			Specialty:      "Cardiology",
			Email:          "sarah.johnson@healthcare.com",
			Phone:          "+1-555-0101",
			AvailableHours: providers.Hours{Start: "09:00", End: "17:00"},
			AvailableDays:  weekdaysOnly,
		},
		{
			Name:           "Dr. Michael Chen",
			Specialty:      "Pediatrics",
			Email:          "michael.chen@healthcare.com",
			Phone:          "+1-555-0102",
			AvailableHours: providers.Hours{Start: "08:00", End: "16:00"},
			AvailableDays:  weekdaysOnly,
		},
		{
			Name:           "Dr. Emily Rodriguez",
			Specialty:      "Dermatology",
			Email:          "emily.rodriguez@healthcare.com",
			Phone:          "+1-555-0103",
			AvailableHours: providers.Hours{Start: "10:00", End: "18:00"},
			AvailableDays:  []string{"Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		},
		{
			Name:           "Dr. James Wilson",
			Specialty:      "Orthopedics",
			Email:          "james.wilson@healthcare.com",
			Phone:          "+1-555-0104",
			AvailableHours: providers.Hours{Start: "09:00", End: "17:00"},
			AvailableDays:  []string{"Monday", "Wednesday", "Thursday", "Friday"},
		},
		{
			Name:           "Dr. Lisa Anderson",
			Specialty:      "General Medicine",
			Email:          "lisa.anderson@healthcare.com",
			Phone:          "+1-555-0105",
			AvailableHours: providers.Hours{Start: "08:00", End: "16:00"},
			AvailableDays:  weekdaysOnly,
		},
	}
}

func demoAppointments() []appointments.Appointment {
	now := time.Now().UTC()
	day := 24 * time.Hour
	return []appointments.Appointment{
		{
			PatientName:       "John Doe",
			PatientEmail:      "john.doe@email.com",
			PatientPhone:      "+1-555-1001",
			ProviderName:      "Dr. Sarah Johnson",
			ProviderSpecialty: "Cardiology",
			AppointmentDate:   now.Add(2 * day),
			AppointmentTime:   "10:00",
			Reason:            "Routine heart checkup and ECG",
			Status:            appointments.StatusScheduled,
			Notes:             "Patient has history of hypertension",
		},
		{
			PatientName:       "Jane Smith",
			PatientEmail:      "jane.smith@email.com",
			PatientPhone:      "+1-555-1002",
			ProviderName:      "Dr. Michael Chen",
			ProviderSpecialty: "Pediatrics",
			AppointmentDate:   now.Add(5 * day),
			AppointmentTime:   "14:30",
			Reason:            "Child vaccination and wellness check",
			Status:            appointments.StatusScheduled,
			Notes:             "Bring vaccination records",
		},
		{
			PatientName:       "Robert Brown",
			PatientEmail:      "robert.brown@email.com",
			PatientPhone:      "+1-555-1003",
			ProviderName:      "Dr. Emily Rodriguez",
			ProviderSpecialty: "Dermatology",
			AppointmentDate:   now.Add(-1 * day),
			AppointmentTime:   "11:00",
			Reason:            "Skin condition evaluation",
			Status:            appointments.StatusCompleted,
			Notes:             "Prescribed topical treatment",
		},
		{
			PatientName:       "Maria Garcia",
			PatientEmail:      "maria.garcia@email.com",
			PatientPhone:      "+1-555-1004",
			ProviderName:      "Dr. James Wilson",
			ProviderSpecialty: "Orthopedics",
			AppointmentDate:   now.Add(7 * day),
			AppointmentTime:   "09:30",
			Reason:            "Knee pain consultation",
			Status:            appointments.StatusScheduled,
			Notes:             "Bring X-ray results if available",
		},
		{
			PatientName:       "David Lee",
			PatientEmail:      "david.lee@email.com",
			PatientPhone:      "+1-555-1005",
			ProviderName:      "Dr. Lisa Anderson",
			ProviderSpecialty: "General Medicine",
			AppointmentDate:   now.Add(3 * day),
			AppointmentTime:   "15:00",
			Reason:            "Annual physical examination",
			Status:            appointments.StatusScheduled,
			Notes:             "",
		},
	}
}
