package workflow

import (
	"errors"
	"testing"

	"bitbucket.org/voltride/fieldops_backend/models"
)

func validEvent(def *WorkflowDefinition, status models.BookingStatus) *TransitionEvent {
	lat, lng := 25.2048, 55.2708
	ev := &TransitionEvent{
		BookingId:    def.BookingPrefix + "1001",
		AgentId:      7,
		TargetStatus: status,
		Latitude:     &lat,
		Longitude:    &lng,
	}
	if status == models.StatusCancelled {
		ev.Reason = "rider unreachable"
	}
	if def.ChargingStartStatus != "" && status == def.ChargingStartStatus {
		ev.DeviceId = "POD-001"
	}
	return ev
}

func TestDefinitions_HappyPathChains(t *testing.T) {
	chains := map[models.Vertical][]models.BookingStatus{
		models.VerticalRoadsideAssistance: {
			models.StatusCreated, models.StatusAssigned, models.StatusEnRoute,
			models.StatusReachedLocation, models.StatusChargingStarted,
			models.StatusChargingComplete, models.StatusPickedUp, models.StatusReachedOffice,
		},
		models.VerticalPortableCharger: {
			models.StatusCreated, models.StatusAssigned, models.StatusEnRoute,
			models.StatusReachedLocation, models.StatusChargingStarted,
			models.StatusChargingComplete, models.StatusPickedUp, models.StatusReachedOffice,
		},
		models.VerticalChargingService: {
			models.StatusCreated, models.StatusAssigned, models.StatusEnRoute,
			models.StatusReachedLocation, models.StatusVehiclePickedUp,
			models.StatusDropped, models.StatusWorkComplete,
		},
	}
	for vertical, chain := range chains {
		def, ok := DefinitionFor(vertical)
		if !ok {
			t.Fatalf("no definition for %s", vertical)
		}
		for i := 0; i < len(chain)-1; i++ {
			if !def.CanTransition(chain[i], chain[i+1]) {
				t.Errorf("%s: expected %s -> %s to be legal", vertical, chain[i], chain[i+1])
			}
		}
		if !def.IsTerminal(chain[len(chain)-1]) {
			t.Errorf("%s: expected %s to be terminal", vertical, chain[len(chain)-1])
		}
		if !def.IsTerminal(models.StatusCancelled) {
			t.Errorf("%s: expected cancelled to be terminal", vertical)
		}
	}
}

func TestDefinitions_RejectSkippedSteps(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalRoadsideAssistance)

	if def.CanTransition(models.StatusCreated, models.StatusEnRoute) {
		t.Error("expected created -> en-route to be illegal")
	}
	if def.CanTransition(models.StatusEnRoute, models.StatusChargingComplete) {
		t.Error("expected en-route -> charging-complete to be illegal")
	}
	if def.CanTransition(models.StatusChargingComplete, models.StatusChargingStarted) {
		t.Error("expected backwards transition to be illegal")
	}
	if def.CanTransition(models.StatusEnRoute, models.StatusCancelled) {
		t.Error("expected cancellation after en-route to be illegal")
	}
}

func TestDefinitions_VerticalStatusIsolation(t *testing.T) {
	rsa, _ := DefinitionFor(models.VerticalRoadsideAssistance)
	csb, _ := DefinitionFor(models.VerticalChargingService)

	if rsa.KnowsStatus(models.StatusVehiclePickedUp) {
		t.Error("roadside assistance must not know the valet pickup status")
	}
	if csb.KnowsStatus(models.StatusChargingStarted) {
		t.Error("charging service must not know the charging-start status")
	}
}

func TestValidateEvent_UnknownStatus(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalRoadsideAssistance)

	ev := validEvent(def, "XX")
	if err := ValidateEvent(def, ev); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// Created is never a legal event target.
	ev = validEvent(def, models.StatusCreated)
	if err := ValidateEvent(def, ev); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for created target, got %v", err)
	}
}

func TestValidateEvent_RequiredFields(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalPortableCharger)

	ev := validEvent(def, models.StatusEnRoute)
	ev.Latitude = nil
	var missing *MissingFieldError
	if err := ValidateEvent(def, ev); !errors.As(err, &missing) || missing.Field != "latitude" {
		t.Fatalf("expected missing latitude, got %v", err)
	}

	ev = validEvent(def, models.StatusCancelled)
	ev.Reason = ""
	if err := ValidateEvent(def, ev); !errors.As(err, &missing) || missing.Field != "reason" {
		t.Fatalf("expected missing reason, got %v", err)
	}

	ev = validEvent(def, models.StatusChargingStarted)
	ev.DeviceId = ""
	if err := ValidateEvent(def, ev); !errors.As(err, &missing) || missing.Field != "device_id" {
		t.Fatalf("expected missing device_id, got %v", err)
	}
}

func TestValidateEvent_PhotoRequirementFlag(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalPortableCharger)

	ev := validEvent(def, models.StatusChargingStarted)
	if err := ValidateEvent(def, ev); err != nil {
		t.Fatalf("photo must be optional when the flag is off, got %v", err)
	}

	t.Setenv("REQUIRE_CHARGING_PHOTO", "true")
	if err := ValidateEvent(def, ev); !errors.Is(err, ErrMediaRequired) {
		t.Fatalf("expected ErrMediaRequired with the flag on, got %v", err)
	}
	ev.MediaRefs = []string{"transitions/portable-charger/PCB1001/1.jpg"}
	if err := ValidateEvent(def, ev); err != nil {
		t.Fatalf("expected photo to satisfy the flag, got %v", err)
	}
}

func TestDefinitionForSlug(t *testing.T) {
	for _, slug := range []string{"roadside-assistance", "portable-charger", "charging-service"} {
		if _, ok := DefinitionForSlug(slug); !ok {
			t.Errorf("expected definition for slug %q", slug)
		}
	}
	if _, ok := DefinitionForSlug("scooter-wash"); ok {
		t.Error("expected no definition for unknown slug")
	}
}
