package main

import (
	"context"
	"fmt"
	"strings"

	"healthcare-portal/internal/delivery/dto"
	"healthcare-portal/internal/usecase"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var specialties = []string{
	"General Practice",
	"Cardiology",
	"Dermatology",
	"Pediatrics",
	"Neurology",
	"Orthopedics",
	"Psychiatry",
	"Ophthalmology",
}

type seedResult struct {
	Providers int
	Patients  int
}

type seeder struct {
	auth     usecase.AuthUsecase
	log      *logrus.Logger
	faker    *gofakeit.Faker
	password string
}

func newSeeder(auth usecase.AuthUsecase, log *logrus.Logger, seed uint64, password string) *seeder {
	return &seeder{
		auth:     auth,
		log:      log,
		faker:    gofakeit.New(seed),
		password: password,
	}
}

func (s *seeder) email(kind string, i int) string {
	local := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(s.faker.Username()))
	return fmt.Sprintf("%s.%s.%d@example.test", kind, local, i)
}

func (s *seeder) providerRequest(i int) *dto.RegisterProviderRequest {
	specialty := specialties[s.faker.Number(0, len(specialties)-1)]
	return &dto.RegisterProviderRequest{
		Email:           s.email("provider", i),
		Password:        s.password,
		FullName:        "Dr. " + s.faker.Name(),
		PhoneNumber:     s.faker.Phone(),
		Specialty:       specialty,
		ClinicAddress:   fmt.Sprintf("%s, %s", s.faker.Street(), s.faker.City()),
		ConsultationFee: decimal.NewFromFloat(s.faker.Price(50, 500)).Round(2),
		Biography:       fmt.Sprintf("%s specialist at %s.", specialty, s.faker.Company()),
	}
}

func (s *seeder) patientRequest(i int) *dto.RegisterPatientRequest {
	return &dto.RegisterPatientRequest{
		Email:       s.email("patient", i),
		Password:    s.password,
		FullName:    s.faker.Name(),
		PhoneNumber: s.faker.Phone(),
		Age:         s.faker.Number(1, 95),
		Gender:      s.faker.RandomString([]string{"male", "female", "other"}),
		Address:     fmt.Sprintf("%s, %s", s.faker.Street(), s.faker.City()),
	}
}

// Run registers the accounts through the normal registration path.
func (s *seeder) Run(ctx context.Context, providers, patients int) (seedResult, error) {
	var res seedResult
	for i := 0; i < providers; i++ {
		if _, err := s.auth.RegisterProvider(ctx, s.providerRequest(i)); err != nil {
			return res, fmt.Errorf("seed provider %d: %w", i, err)
		}
		res.Providers++
	}
	for i := 0; i < patients; i++ {
		if _, err := s.auth.RegisterPatient(ctx, s.patientRequest(i)); err != nil {
			return res, fmt.Errorf("seed patient %d: %w", i, err)
		}
		res.Patients++
	}
	s.log.Infof("Seeded %d providers and %d patients", res.Providers, res.Patients)
	return res, nil
}
