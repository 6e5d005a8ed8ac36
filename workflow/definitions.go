package workflow

import (
	"bitbucket.org/voltride/fieldops_backend/models"
)

// WorkflowDefinition binds one vertical's status set, legal transitions,
// table names and id prefixes. The transition engine is generic over this;
// the three verticals share one code path.
type WorkflowDefinition struct {
	Vertical      models.Vertical
	Name          string
	Slug          string
	BookingTable  string
	HistoryTable  string
	BookingPrefix string
	InvoicePrefix string

	// Transitions is the adjacency map of legal next statuses.
	Transitions map[models.BookingStatus][]models.BookingStatus

	// StatusMessages are the rider-facing notification texts per status.
	StatusMessages map[models.BookingStatus]string

	// CompletionStatus triggers invoice reconciliation.
	CompletionStatus models.BookingStatus

	// ChargingStartStatus/ChargingEndStatus toggle the attached device's busy
	// flag. Zero for verticals without a device step.
	ChargingStartStatus models.BookingStatus
	ChargingEndStatus   models.BookingStatus

	// EmailMilestones maps statuses that trigger an email to the subject line.
	EmailMilestones map[models.BookingStatus]string

	DeepLinkTag string
}

func (d *WorkflowDefinition) KnowsStatus(s models.BookingStatus) bool {
	if _, ok := d.Transitions[s]; ok {
		return true
	}
	for _, targets := range d.Transitions {
		for _, t := range targets {
			if t == s {
				return true
			}
		}
	}
	return false
}

func (d *WorkflowDefinition) CanTransition(from, to models.BookingStatus) bool {
	for _, t := range d.Transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (d *WorkflowDefinition) IsTerminal(s models.BookingStatus) bool {
	return d.KnowsStatus(s) && len(d.Transitions[s]) == 0
}

var roadsideAssistanceDefinition = WorkflowDefinition{
	Vertical:      models.VerticalRoadsideAssistance,
	Name:          "Roadside Assistance",
	Slug:          "roadside-assistance",
	BookingTable:  "roadside_assistances",
	HistoryTable:  "roadside_assistance_histories",
	BookingPrefix: "RSA",
	InvoicePrefix: "INVRS",
	Transitions: map[models.BookingStatus][]models.BookingStatus{
		models.StatusCreated:          {models.StatusAssigned, models.StatusCancelled},
		models.StatusAssigned:         {models.StatusEnRoute, models.StatusCancelled},
		models.StatusEnRoute:          {models.StatusReachedLocation},
		models.StatusReachedLocation:  {models.StatusChargingStarted},
		models.StatusChargingStarted:  {models.StatusChargingComplete},
		models.StatusChargingComplete: {models.StatusPickedUp},
		models.StatusPickedUp:         {models.StatusReachedOffice},
		models.StatusReachedOffice:    {},
		models.StatusCancelled:        {},
	},
	StatusMessages: map[models.BookingStatus]string{
		models.StatusAssigned:         "An agent has been assigned to your roadside assistance booking",
		models.StatusEnRoute:          "Your agent is on the way",
		models.StatusReachedLocation:  "Your agent has arrived at your location",
		models.StatusChargingStarted:  "Charging has started for your vehicle",
		models.StatusChargingComplete: "Charging is complete for your vehicle",
		models.StatusPickedUp:         "Your booking is complete, thanks for choosing us",
		models.StatusReachedOffice:    "Your agent has returned to base",
		models.StatusCancelled:        "Your roadside assistance booking has been cancelled",
	},
	CompletionStatus:    models.StatusPickedUp,
	ChargingStartStatus: models.StatusChargingStarted,
	ChargingEndStatus:   models.StatusChargingComplete,
	EmailMilestones: map[models.BookingStatus]string{
		models.StatusChargingComplete: "Your vehicle charging is complete",
		models.StatusCancelled:        "Your roadside assistance booking was cancelled",
	},
	DeepLinkTag: "roadside-assistance",
}

var portableChargerDefinition = WorkflowDefinition{
	Vertical:      models.VerticalPortableCharger,
	Name:          "Portable Charger",
	Slug:          "portable-charger",
	BookingTable:  "portable_charger_bookings",
	HistoryTable:  "portable_charger_booking_histories",
	BookingPrefix: "PCB",
	InvoicePrefix: "INVPC",
	Transitions: map[models.BookingStatus][]models.BookingStatus{
		models.StatusCreated:          {models.StatusAssigned, models.StatusCancelled},
		models.StatusAssigned:         {models.StatusEnRoute, models.StatusCancelled},
		models.StatusEnRoute:          {models.StatusReachedLocation},
		models.StatusReachedLocation:  {models.StatusChargingStarted},
		models.StatusChargingStarted:  {models.StatusChargingComplete},
		models.StatusChargingComplete: {models.StatusPickedUp},
		models.StatusPickedUp:         {models.StatusReachedOffice},
		models.StatusReachedOffice:    {},
		models.StatusCancelled:        {},
	},
	StatusMessages: map[models.BookingStatus]string{
		models.StatusAssigned:         "An agent has been assigned to deliver your charging pod",
		models.StatusEnRoute:          "Your charging pod is on the way",
		models.StatusReachedLocation:  "Your charging pod has arrived",
		models.StatusChargingStarted:  "Your vehicle is now charging from the pod",
		models.StatusChargingComplete: "Pod charging is complete",
		models.StatusPickedUp:         "The charging pod has been picked up",
		models.StatusReachedOffice:    "Your agent has returned to base",
		models.StatusCancelled:        "Your charging pod booking has been cancelled",
	},
	CompletionStatus:    models.StatusChargingComplete,
	ChargingStartStatus: models.StatusChargingStarted,
	ChargingEndStatus:   models.StatusChargingComplete,
	EmailMilestones: map[models.BookingStatus]string{
		models.StatusChargingComplete: "Your pod charging is complete",
		models.StatusCancelled:        "Your charging pod booking was cancelled",
	},
	DeepLinkTag: "portable-charger",
}

var chargingServiceDefinition = WorkflowDefinition{
	Vertical:      models.VerticalChargingService,
	Name:          "Charging Service",
	Slug:          "charging-service",
	BookingTable:  "charging_services",
	HistoryTable:  "charging_service_histories",
	BookingPrefix: "CSB",
	InvoicePrefix: "INVCS",
	Transitions: map[models.BookingStatus][]models.BookingStatus{
		models.StatusCreated:         {models.StatusAssigned, models.StatusCancelled},
		models.StatusAssigned:        {models.StatusEnRoute, models.StatusCancelled},
		models.StatusEnRoute:         {models.StatusReachedLocation},
		models.StatusReachedLocation: {models.StatusVehiclePickedUp},
		models.StatusVehiclePickedUp: {models.StatusDropped},
		models.StatusDropped:         {models.StatusWorkComplete},
		models.StatusWorkComplete:    {},
		models.StatusCancelled:       {},
	},
	StatusMessages: map[models.BookingStatus]string{
		models.StatusAssigned:        "A valet has been assigned to your charging service",
		models.StatusEnRoute:         "Your valet is on the way",
		models.StatusReachedLocation: "Your valet has arrived at your location",
		models.StatusVehiclePickedUp: "Your vehicle has been picked up for charging",
		models.StatusDropped:         "Your vehicle has been dropped off, charged",
		models.StatusWorkComplete:    "Your charging service is complete, thanks for choosing us",
		models.StatusCancelled:       "Your charging service booking has been cancelled",
	},
	CompletionStatus: models.StatusWorkComplete,
	EmailMilestones: map[models.BookingStatus]string{
		models.StatusWorkComplete: "Your charging service is complete",
		models.StatusCancelled:    "Your charging service booking was cancelled",
	},
	DeepLinkTag: "charging-service",
}

var definitions = []*WorkflowDefinition{
	&roadsideAssistanceDefinition,
	&portableChargerDefinition,
	&chargingServiceDefinition,
}

func DefinitionFor(v models.Vertical) (*WorkflowDefinition, bool) {
	for _, d := range definitions {
		if d.Vertical == v {
			return d, true
		}
	}
	return nil, false
}

// DefinitionForSlug resolves the URL path segment used by the agent API
// (e.g. "portable-charger").
func DefinitionForSlug(slug string) (*WorkflowDefinition, bool) {
	for _, d := range definitions {
		if d.Slug == slug {
			return d, true
		}
	}
	return nil, false
}
