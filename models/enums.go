package models

// Vertical identifies one of the three field-service booking domains.
type Vertical string

const (
	VerticalRoadsideAssistance Vertical = "RSA"
	VerticalPortableCharger    Vertical = "PCB"
	VerticalChargingService    Vertical = "CSB"
)

func (v Vertical) IsValid() bool {
	switch v {
	case VerticalRoadsideAssistance, VerticalPortableCharger, VerticalChargingService:
		return true
	}
	return false
}

// BookingStatus is a lifecycle status code. Each vertical recognizes its own
// subset; see workflow.DefinitionFor.
type BookingStatus string

const (
	StatusCreated          BookingStatus = "CRE"
	StatusAssigned         BookingStatus = "A"
	StatusEnRoute          BookingStatus = "ER"
	StatusReachedLocation  BookingStatus = "RL"
	StatusChargingStarted  BookingStatus = "CS"
	StatusChargingComplete BookingStatus = "CC"
	StatusPickedUp         BookingStatus = "PU"
	StatusReachedOffice    BookingStatus = "RO"
	StatusVehiclePickedUp  BookingStatus = "VP"
	StatusDropped          BookingStatus = "DO"
	StatusWorkComplete     BookingStatus = "WC"
	StatusCancelled        BookingStatus = "C"
)

// EffectKind is the delivery channel of an outbox side effect.
type EffectKind string

const (
	EffectKindPush  EffectKind = "PUSH"
	EffectKindEmail EffectKind = "EMAIL"
)

// PaymentStatus is the reconciliation outcome recorded on an invoice.
type PaymentStatus string

const (
	// PaymentStatusApproved marks cash/zero-value bookings that close with no
	// captured payment.
	PaymentStatusApproved PaymentStatus = "Approved"
	// PaymentStatusPaid marks invoices backed by a retrieved gateway charge.
	PaymentStatusPaid PaymentStatus = "Paid"
	// PaymentStatusIncomplete marks invoices whose gateway lookup failed; the
	// booking transition itself still succeeded.
	PaymentStatusIncomplete PaymentStatus = "Incomplete"
)

type EffectPublishStatus = string

const (
	EffectPublishStatusPending    EffectPublishStatus = "PENDING"
	EffectPublishStatusProcessing EffectPublishStatus = "PROCESSING"
	EffectPublishStatusSent       EffectPublishStatus = "SENT"
	EffectPublishStatusFailed     EffectPublishStatus = "FAILED"
	EffectPublishStatusDead       EffectPublishStatus = "DEAD"
)
