package eventref

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Encode packs a calendar id and an event id into one opaque reference that
// can be stored on a tournament record and decoded later for deletion.
func Encode(calendarID, eventID string) string {
	ref := fmt.Sprintf("%s|%s", calendarID, eventID)
	return base64.StdEncoding.EncodeToString([]byte(ref))
}

// Decode splits a reference back into its calendar id and event id.
func Decode(ref string) (calendarID, eventID string, err error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(ref)
	if err != nil {
		return "", "", err
	}
	res := strings.Split(string(decodedBytes), "|")
	if len(res) != 2 {
		return "", "", fmt.Errorf("not correct format")
	}
	return res[0], res[1], nil
}
