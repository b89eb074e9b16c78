package eventref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	ref := Encode("primary", "evt_123")
	assert.NotEmpty(t, ref, "encoded reference should not be empty")
}

func TestDecode(t *testing.T) {
	calendarID := "team@group.calendar.google.com"
	eventID := "evt_abc123"
	ref := Encode(calendarID, eventID)

	decodedCalendarID, decodedEventID, err := Decode(ref)

	assert.Nil(t, err, "Should not have an error during decoding")
	assert.Equal(t, calendarID, decodedCalendarID, "Decoded calendar id should match the original")
	assert.Equal(t, eventID, decodedEventID, "Decoded event id should match the original")
}

func TestDecode_ErrorHandling(t *testing.T) {
	_, _, err := Decode("this is not a base64 string")
	assert.NotNil(t, err, "Expected an error for incorrect base64 string")
}
