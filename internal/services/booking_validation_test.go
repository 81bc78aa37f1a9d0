package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChangeRequestRequiredFields(t *testing.T) {
	errs := ValidateChangeRequest(&ChangeRequestInput{}, 0)

	assert.Contains(t, errs, "requested_event_date")
	assert.Contains(t, errs, "requested_start_time")
	assert.Contains(t, errs, "requested_end_time")
	assert.Contains(t, errs, "reason")
}

func TestValidateChangeRequestValid(t *testing.T) {
	errs := ValidateChangeRequest(&ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "14:00",
		RequestedEndTime:   "20:00",
		Reason:             "more guests",
	}, 2)
	assert.Empty(t, errs)
}

func TestValidateChangeRequestWhitespaceReason(t *testing.T) {
	errs := ValidateChangeRequest(&ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "14:00",
		RequestedEndTime:   "20:00",
		Reason:             "  \t ",
	}, 2)
	assert.Contains(t, errs, "reason")
}

func TestValidateChangeRequestInvertedTimes(t *testing.T) {
	input := &ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "15:00",
		RequestedEndTime:   "14:00",
		Reason:             "late night",
	}

	// Inverted range with a positive hours difference is a legitimate
	// overnight extension.
	assert.Empty(t, ValidateChangeRequest(input, 19))

	// Without a positive difference it is an entry mistake.
	errs := ValidateChangeRequest(input, -1)
	assert.Contains(t, errs, "requested_end_time")
}

func TestValidateChangeRequestMalformedClock(t *testing.T) {
	errs := ValidateChangeRequest(&ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "3pm",
		RequestedEndTime:   "20:00",
		Reason:             "time fix",
	}, 0)
	assert.Contains(t, errs, "requested_start_time")
}
