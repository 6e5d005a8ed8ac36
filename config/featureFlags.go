package config

import (
	"os"
	"strings"
)

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// RequireChargingPhoto makes a photo reference mandatory on charging-start
// events. Agent apps without a working upload pipeline run with this off.
//
// Set via env:
// - REQUIRE_CHARGING_PHOTO=true
func RequireChargingPhoto() bool {
	return envBool("REQUIRE_CHARGING_PHOTO")
}

// EffectPubSubMirrorEnabled mirrors every dispatched side effect to a
// Pub/Sub topic for downstream consumers (analytics, CRM).
//
// Set via env:
// - EFFECT_PUBSUB_MIRROR=true
func EffectPubSubMirrorEnabled() bool {
	return envBool("EFFECT_PUBSUB_MIRROR")
}
