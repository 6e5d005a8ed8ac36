package workflow

import (
	"encoding/json"
	"strings"
	"testing"

	"bitbucket.org/voltride/fieldops_backend/models"
)

func TestBuildTransitionEffects_PushRequiresDeviceToken(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalRoadsideAssistance)
	booking := &models.BookingRow{BookingId: "RSA1", RiderId: 3}
	ev := validEvent(def, models.StatusEnRoute)

	token := "tok-1"
	withToken := &models.Rider{ID: 3, Email: "r@example.com", DeviceToken: &token}
	noti, effects, err := BuildTransitionEffects(def, booking, ev, withToken)
	if err != nil {
		t.Fatal(err)
	}
	if noti.ToId != 3 || noti.ToRole != "rider" {
		t.Fatalf("notification target: %+v", noti)
	}
	if len(effects) != 1 || effects[0].Kind != models.EffectKindPush {
		t.Fatalf("expected one push effect, got %+v", effects)
	}
	if effects[0].PublishStatus != models.EffectPublishStatusPending {
		t.Fatalf("expected PENDING, got %s", effects[0].PublishStatus)
	}

	withoutToken := &models.Rider{ID: 3, Email: "r@example.com"}
	_, effects, err = BuildTransitionEffects(def, booking, ev, withoutToken)
	if err != nil {
		t.Fatal(err)
	}
	if len(effects) != 0 {
		t.Fatalf("expected no effects without a device token off milestone, got %+v", effects)
	}
}

func TestBuildTransitionEffects_EmailOnMilestones(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalChargingService)
	booking := &models.BookingRow{BookingId: "CSB1", RiderId: 5}
	rider := &models.Rider{ID: 5, Email: "rider@example.com"}

	ev := validEvent(def, models.StatusWorkComplete)
	_, effects, err := BuildTransitionEffects(def, booking, ev, rider)
	if err != nil {
		t.Fatal(err)
	}
	if len(effects) != 1 || effects[0].Kind != models.EffectKindEmail {
		t.Fatalf("expected one email effect on work complete, got %+v", effects)
	}

	var payload EffectPayload
	if err := json.Unmarshal([]byte(effects[0].Payload), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Email != "rider@example.com" || payload.Subject == "" {
		t.Fatalf("payload: %+v", payload)
	}

	// Non-milestone statuses stay push/in-app only.
	ev = validEvent(def, models.StatusEnRoute)
	_, effects, err = BuildTransitionEffects(def, booking, ev, rider)
	if err != nil {
		t.Fatal(err)
	}
	if len(effects) != 0 {
		t.Fatalf("expected no email off milestone, got %+v", effects)
	}
}

func TestBuildRejectionEffect_TargetsOpsMailbox(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalRoadsideAssistance)
	booking := &models.BookingRow{BookingId: "RSA1001", RiderId: 3}
	ev := validEvent(def, models.StatusCancelled)
	ev.Reason = "too far away"

	effect, err := BuildRejectionEffect(def, booking, ev)
	if err != nil {
		t.Fatal(err)
	}
	if effect != nil {
		t.Fatalf("expected no effect without an ops mailbox, got %+v", effect)
	}

	t.Setenv("OPS_ALERT_EMAIL", "dispatch@example.com")
	effect, err = BuildRejectionEffect(def, booking, ev)
	if err != nil {
		t.Fatal(err)
	}
	if effect == nil || effect.Kind != models.EffectKindEmail {
		t.Fatalf("expected an email effect, got %+v", effect)
	}

	var payload EffectPayload
	if err := json.Unmarshal([]byte(effect.Payload), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Email != "dispatch@example.com" {
		t.Fatalf("decline email must go to ops, not the rider: %+v", payload)
	}
	if !strings.Contains(payload.Message, "too far away") {
		t.Fatalf("expected decline reason in the message, got %q", payload.Message)
	}
}

func TestStatusNotification_CancellationCarriesReason(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalPortableCharger)
	ev := validEvent(def, models.StatusCancelled)
	ev.Reason = "pod unavailable"

	_, message := StatusNotification(def, ev)
	if want := "Reason: pod unavailable"; !strings.Contains(message, want) {
		t.Fatalf("expected message to contain %q, got %q", want, message)
	}
}
