package services

import (
	"strings"

	"github.com/Ahmad9bh/party2book-api/internal/pricing"
)

func validatePresence(input *ChangeRequestInput) map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(input.RequestedEventDate) == "" {
		errors["requested_event_date"] = "requested date is required"
	}
	if strings.TrimSpace(input.RequestedStartTime) == "" {
		errors["requested_start_time"] = "requested start time is required"
	}
	if strings.TrimSpace(input.RequestedEndTime) == "" {
		errors["requested_end_time"] = "requested end time is required"
	}
	if strings.TrimSpace(input.Reason) == "" {
		errors["reason"] = "a reason for the change is required"
	}
	return errors
}

// ValidateChangeRequest checks a candidate change request for completeness
// and logical consistency. The returned map is keyed by field name; an empty
// map means the request may be submitted.
//
// An end time earlier in the day than the start time is only an error when
// the computed hours difference is not positive: a genuine overnight
// extension produces a positive difference, while a same-day entry mistake
// does not.
func ValidateChangeRequest(input *ChangeRequestInput, hoursDifference float64) map[string]string {
	errors := validatePresence(input)

	if _, ok := errors["requested_start_time"]; !ok {
		if _, err := pricing.ClockMinutes(input.RequestedStartTime); err != nil {
			errors["requested_start_time"] = "requested start time must be HH:MM"
		}
	}
	if _, ok := errors["requested_end_time"]; !ok {
		if _, err := pricing.ClockMinutes(input.RequestedEndTime); err != nil {
			errors["requested_end_time"] = "requested end time must be HH:MM"
		}
	}

	if errors["requested_start_time"] == "" && errors["requested_end_time"] == "" {
		startMin, errStart := pricing.ClockMinutes(input.RequestedStartTime)
		endMin, errEnd := pricing.ClockMinutes(input.RequestedEndTime)
		if errStart == nil && errEnd == nil && endMin < startMin && hoursDifference <= 0 {
			errors["requested_end_time"] = "end time must be after start time"
		}
	}

	return errors
}
