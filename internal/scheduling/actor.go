package scheduling

import "github.com/google/uuid"

type Role int

const (
	RolePatient Role = iota + 1
	RoleProvider
)

func (r Role) String() string {
	switch r {
	case RolePatient:
		return "patient"
	case RoleProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// Actor is the authenticated identity acting on appointments. It is either a
// patient or a provider; the zero value is neither and is never authorized.
type Actor struct {
	role Role
	id   uuid.UUID
}

func PatientActor(id uuid.UUID) Actor { return Actor{role: RolePatient, id: id} }

func ProviderActor(id uuid.UUID) Actor { return Actor{role: RoleProvider, id: id} }

func (a Actor) Role() Role { return a.role }

func (a Actor) ID() uuid.UUID { return a.id }

func (a Actor) IsPatient() bool { return a.role == RolePatient }

func (a Actor) IsProvider() bool { return a.role == RoleProvider }

func (a Actor) Valid() bool {
	return (a.role == RolePatient || a.role == RoleProvider) && a.id != uuid.Nil
}

// Participates reports whether the actor is the patient or the provider of
// the appointment.
func (a Actor) Participates(patientID, providerID uuid.UUID) bool {
	switch a.role {
	case RolePatient:
		return a.id == patientID
	case RoleProvider:
		return a.id == providerID
	default:
		return false
	}
}
