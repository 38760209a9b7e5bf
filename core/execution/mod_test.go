package execution

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventLog_Emit(t *testing.T) {
	log := &EventLog{}

	log.Emit("A", "key", "value", "dangling")
	log.Emit("B")

	expected := []Event{
		{Name: "A", Attributes: map[string]string{"key": "value"}},
		{Name: "B", Attributes: map[string]string{}},
	}
	require.Equal(t, expected, log.GetEvents())

	var nilLog *EventLog
	nilLog.Emit("A")
	require.Nil(t, nilLog.GetEvents())
}
